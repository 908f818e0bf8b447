package models

import "time"

// User is a registered account
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:254;uniqueIndex;not null"`
	Username  string `gorm:"size:150;uniqueIndex;not null"`
	FirstName string `gorm:"size:150;not null"`
	LastName  string `gorm:"size:150;not null"`
	Password  string `gorm:"size:128;not null"`
	CreatedAt time.Time
}

// AuthToken is an issued login token; the token is valid only while its row exists
type AuthToken struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"index;not null"`
	User      User   `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
}

// Follow subscribes a user to an author; unique per (user, following)
type Follow struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"uniqueIndex:idx_follow_user_following;not null"`
	FollowingID uint `gorm:"uniqueIndex:idx_follow_user_following;index;not null"`
	Following   User `gorm:"foreignKey:FollowingID"`
	CreatedAt   time.Time
}
