package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Reaction is one user's emoji on a message. At most one per user per message.
type Reaction struct {
	UserID string `json:"userId"`
	Emoji  string `json:"emoji"`
}

// ReactionList is stored as a JSON column
type ReactionList []Reaction

// Value implements driver.Valuer
func (r ReactionList) Value() (driver.Value, error) {
	if r == nil {
		r = ReactionList{}
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner
func (r *ReactionList) Scan(value interface{}) error {
	if value == nil {
		*r = ReactionList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported reactions column type")
	}
	if len(data) == 0 {
		*r = ReactionList{}
		return nil
	}
	return json.Unmarshal(data, r)
}

// Find returns the reaction of a user, if any
func (r ReactionList) Find(userID string) (Reaction, bool) {
	for _, item := range r {
		if item.UserID == userID {
			return item, true
		}
	}
	return Reaction{}, false
}

// Without returns the list with the user's reaction removed
func (r ReactionList) Without(userID string) ReactionList {
	out := make(ReactionList, 0, len(r))
	for _, item := range r {
		if item.UserID != userID {
			out = append(out, item)
		}
	}
	return out
}

// Toggle applies direct-message semantics: submitting the same emoji again
// removes the reaction, a different emoji replaces it.
func (r ReactionList) Toggle(userID, emoji string) ReactionList {
	existing, ok := r.Find(userID)
	out := r.Without(userID)
	if ok && existing.Emoji == emoji {
		return out
	}
	return append(out, Reaction{UserID: userID, Emoji: emoji})
}

// Replace applies room semantics: always replace-or-add, never remove.
func (r ReactionList) Replace(userID, emoji string) ReactionList {
	out := r.Without(userID)
	return append(out, Reaction{UserID: userID, Emoji: emoji})
}
