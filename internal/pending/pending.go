// Package pending holds each user's most recent item choice until their follow-up message arrives.
//
// A selection lives until it is taken, overwritten by a newer one, or (only when a TTL is configured) it expires.
package pending

import "context"

type Selection struct {
	UserID      string `json:"user_id"`
	Item        string `json:"item"`
	DisplayName string `json:"display_name"`
}

type Store interface {
	// Put overwrites any selection already held for s.UserID.
	Put(ctx context.Context, s Selection) error
	// Restore puts s back only when nothing is held for s.UserID, so a newer selection is never clobbered.
	// held reports whether s was stored.
	Restore(ctx context.Context, s Selection) (held bool, err error)
	// Take removes and returns the user's selection. ok is false when none is held.
	Take(ctx context.Context, userID string) (s Selection, ok bool, err error)
}
