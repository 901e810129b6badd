package models

// Author is either a local account on this node or a cached stub of an
// author living on another node. Foreign authors are identified solely by
// their canonical URL; it never changes after the row is created.
type Author struct {
	BaseModel

	URL             string `json:"url" gorm:"uniqueIndex"`
	Name            string `json:"display_name"`
	GithubURL       string `json:"github_url"`
	ProfileImageURL string `json:"profile_image_url"`

	IsForeign bool   `json:"is_foreign"`
	Secret    string `json:"-"`

	Posts          []Post          `json:"posts" gorm:"foreignKey:AuthorID"`
	Followers      []Follow        `json:"followers" gorm:"foreignKey:ObjectID"`
	FollowRequests []FollowRequest `json:"follow_requests" gorm:"foreignKey:ObjectID"`
	Inbox          []InboxPost     `json:"inbox" gorm:"foreignKey:OwnerID"`
}
