// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package models

import "time"

// Interaction actions.
const (
	ActionImpression = "impression"
	ActionView       = "view"
	ActionClick      = "click"
	ActionLike       = "like"
	ActionDislike    = "dislike"
)

// AnonymousUser is recorded when a tracking call carries no session.
const AnonymousUser = "anonymous"

// Interaction is one row of the interaction log.
type Interaction struct {
	UserID       string   `json:"user_id" bson:"user_id"`
	RestaurantID string   `json:"restaurant_id" bson:"restaurant_id"`
	Timestamp    string   `json:"timestamp" bson:"timestamp"`
	Action       string   `json:"action" bson:"action"`
	Reward       float64  `json:"reward" bson:"reward"`
	Lat          *float64 `json:"lat" bson:"lat"`
	Lng          *float64 `json:"lng" bson:"lng"`
	Intent       *string  `json:"intent" bson:"intent"`
	Cuisine      *string  `json:"cuisine" bson:"cuisine"`
	PriceMin     *float64 `json:"price_min" bson:"price_min"`
	PriceMax     *float64 `json:"price_max" bson:"price_max"`
}

// User is an account stored in the users collection.
type User struct {
	UserID       string    `json:"user_id" bson:"user_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"`
	Password     string    `json:"-" bson:"password,omitempty"` // legacy plaintext, upgraded on login
	Role         string    `json:"role" bson:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at,omitempty"`
}

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
