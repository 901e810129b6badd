package models

// Follow is a directed edge actor -> object. The object is always a local
// author; the actor may live anywhere. Mutual is a cached flag and may go
// stale until the next recompute.
type Follow struct {
	BaseModel

	ActorID  uint   `json:"actor_id" gorm:"uniqueIndex:idx_follows_actor_object"`
	Actor    Author `json:"actor"`
	ObjectID uint   `json:"object_id" gorm:"uniqueIndex:idx_follows_actor_object"`
	Object   Author `json:"object"`

	Mutual bool `json:"mutual"`
}

// FollowRequest is a pending inbound follow ask. It becomes a Follow edge
// only when the addressed author accepts it.
type FollowRequest struct {
	BaseModel

	ActorID  uint   `json:"actor_id" gorm:"uniqueIndex:idx_follow_requests_actor_object"`
	Actor    Author `json:"actor"`
	ObjectID uint   `json:"object_id" gorm:"uniqueIndex:idx_follow_requests_actor_object"`
	Object   Author `json:"object"`

	Summary string `json:"summary"`
}
