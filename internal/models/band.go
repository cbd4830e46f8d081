package models

// Remote collaboration entities. These are owned by the hosted backend and
// use its snake_case wire format; timestamps are RFC 3339 strings as
// returned by the service.

// Role describes a member's standing within a band.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// InvitationStatus tracks the lifecycle of a band invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationCancelled InvitationStatus = "cancelled"
)

// MessageType classifies band chat messages.
type MessageType string

const (
	MessageText         MessageType = "text"
	MessageSystem       MessageType = "system"
	MessageSetlistShare MessageType = "setlist_share"
	MessageSongShare    MessageType = "song_share"
)

// Band is a collaboration group.
type Band struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Profile is the public slice of a user account attached to members,
// messages and shared setlists.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// BandMember links a user to a band with a role.
type BandMember struct {
	ID       string   `json:"id"`
	BandID   string   `json:"band_id"`
	UserID   string   `json:"user_id"`
	Role     Role     `json:"role"`
	JoinedAt string   `json:"joined_at"`
	Profile  *Profile `json:"profiles,omitempty"`
}

// BandInvitation is a pending or resolved invite to join a band.
type BandInvitation struct {
	ID           string           `json:"id"`
	BandID       string           `json:"band_id"`
	InviterID    string           `json:"inviter_id"`
	InviteeEmail string           `json:"invitee_email"`
	InviteeID    string           `json:"invitee_id,omitempty"`
	Status       InvitationStatus `json:"status"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
	ExpiresAt    string           `json:"expires_at"`
	BandName     string           `json:"band_name,omitempty"`
}

// BandMessage is a chat message within a band.
//
// Setlist and song shares are regular messages with a share MessageType and
// the shared entity described in Metadata.
type BandMessage struct {
	ID        string         `json:"id"`
	BandID    string         `json:"band_id"`
	UserID    string         `json:"user_id"`
	Content   string         `json:"content"`
	Type      MessageType    `json:"message_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Profile   *Profile       `json:"profiles,omitempty"`
}

// SharedSetlist is a setlist published to a band.
type SharedSetlist struct {
	ID          string              `json:"id"`
	BandID      string              `json:"band_id"`
	OwnerID     string              `json:"owner_id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Venue       string              `json:"venue,omitempty"`
	EventDate   string              `json:"event_date,omitempty"`
	Metadata    map[string]any      `json:"metadata,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
	Owner       *Profile            `json:"profiles,omitempty"`
	Songs       []SharedSetlistSong `json:"shared_setlist_songs,omitempty"`
}

// SharedSetlistSong binds a shared song to a shared setlist with ordering.
type SharedSetlistSong struct {
	Position int        `json:"position"`
	Song     SharedSong `json:"shared_songs"`
}

// SharedSong is a song published alongside a shared setlist, with its audio
// asset uploaded to the backend's storage bucket.
type SharedSong struct {
	ID        string         `json:"id"`
	BandID    string         `json:"band_id"`
	OwnerID   string         `json:"owner_id"`
	Title     string         `json:"title"`
	Artist    string         `json:"artist"`
	Duration  int            `json:"duration"`
	AudioURL  string         `json:"audio_url,omitempty"`
	AlbumArt  string         `json:"album_art,omitempty"`
	Lyrics    string         `json:"lyrics,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Bpm       int            `json:"bpm,omitempty"`
	Key       string         `json:"key,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}
