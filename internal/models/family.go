package models

import "time"

// Family connection statuses
const (
	FamilyActive   = "active"
	FamilyPending  = "pending"
	FamilyInactive = "inactive"
)

// Family relationships
const (
	RelationshipParent   = "parent"
	RelationshipGuardian = "guardian"
)

// FamilyConnection links a parent user to a child user.
type FamilyConnection struct {
	ID           int64      `json:"id" db:"id"`
	ParentID     int64      `json:"parent_id" db:"parent_id"`
	ChildID      int64      `json:"child_id" db:"child_id"`
	Relationship string     `json:"relationship" db:"relationship"`
	Status       string     `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty" db:"approved_at"`
}

// FamilyMember is an active connection joined with the child's basic fields.
type FamilyMember struct {
	ConnectionID int64      `json:"connection_id" db:"connection_id"`
	ChildID      int64      `json:"child_id" db:"child_id"`
	ChildUUID    string     `json:"child_uuid" db:"child_uuid"`
	ChildName    string     `json:"child_name" db:"child_name"`
	ChildEmail   string     `json:"child_email" db:"child_email"`
	ChildAvatar  *string    `json:"child_avatar,omitempty" db:"child_avatar"`
	Relationship string     `json:"relationship" db:"relationship"`
	Status       string     `json:"status" db:"status"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty" db:"approved_at"`
}
