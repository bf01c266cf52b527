package models

import "time"

// FriendshipStatus defines the state of a relationship between two users.
type FriendshipStatus string

const (
	// StatusPending means a friend request has been sent but not yet accepted.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the friend request was accepted, and the users are now friends.
	StatusAccepted FriendshipStatus = "accepted"
)

// FriendEdge is a friendship between two users. It is stored as a single directed row
// (requester -> addressee) but is symmetric once accepted, so lookups must match either column.
// The primary key is a composite of (FromUserID, ToUserID).
type FriendEdge struct {
	FromUserID uint             `gorm:"primaryKey"`
	ToUserID   uint             `gorm:"primaryKey"`
	Status     FriendshipStatus `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Other returns the endpoint of the edge that is not userID.
func (e FriendEdge) Other(userID uint) uint {
	if e.FromUserID == userID {
		return e.ToUserID
	}
	return e.FromUserID
}
