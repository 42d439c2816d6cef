package model

import "strings"

// IdentityKind tags which variant of Identity is populated.
type IdentityKind string

const (
	IdentityNone       IdentityKind = ""
	IdentityRegistered IdentityKind = "registered"
	IdentityGuest      IdentityKind = "guest"
)

// GuestInfo identifies a non-member by email.
type GuestInfo struct {
	Email string `json:"email" bson:"email"`
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Identity is a tagged union: exactly one of UserID (registered member) or
// Guest is set. Build values with Registered or Guest.
type Identity struct {
	UserID string     `json:"userId,omitempty" bson:"userId,omitempty"`
	Guest  *GuestInfo `json:"guestInfo,omitempty" bson:"guestInfo,omitempty"`
}

// Registered returns the identity of a member account.
func Registered(userID string) Identity {
	return Identity{UserID: strings.TrimSpace(userID)}
}

// Guest returns the identity of a non-member.
func Guest(email, name, phone string) Identity {
	return Identity{Guest: &GuestInfo{
		Email: normalizeEmail(email),
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
	}}
}

// Kind reports the populated variant, or IdentityNone when the value is
// empty or ambiguous (both variants set).
func (i Identity) Kind() IdentityKind {
	hasUser := i.UserID != ""
	hasGuest := i.Guest != nil && i.Guest.Email != ""
	switch {
	case hasUser && !hasGuest:
		return IdentityRegistered
	case hasGuest && !hasUser:
		return IdentityGuest
	default:
		return IdentityNone
	}
}

// Equals compares by user id for members and case-insensitive email for
// guests. Identities of different kinds are never equal.
func (i Identity) Equals(o Identity) bool {
	k := i.Kind()
	if k == IdentityNone || k != o.Kind() {
		return false
	}
	if k == IdentityRegistered {
		return i.UserID == o.UserID
	}
	return normalizeEmail(i.Guest.Email) == normalizeEmail(o.Guest.Email)
}

// Key is a stable string form, useful for logging and map keys.
func (i Identity) Key() string {
	switch i.Kind() {
	case IdentityRegistered:
		return "user:" + i.UserID
	case IdentityGuest:
		return "guest:" + normalizeEmail(i.Guest.Email)
	default:
		return ""
	}
}

// Normalized trims the identity and lowercases guest email.
func (i Identity) Normalized() Identity {
	if i.Guest != nil && i.UserID == "" {
		return Guest(i.Guest.Email, i.Guest.Name, i.Guest.Phone)
	}
	out := Identity{UserID: strings.TrimSpace(i.UserID)}
	if i.Guest != nil {
		g := *i.Guest
		out.Guest = &g
	}
	return out
}

// validate appends identity problems under the given field prefix.
func (i Identity) validate(field string, errs *fieldErrors) {
	switch i.Kind() {
	case IdentityRegistered:
	case IdentityGuest:
		if !isValidEmail(i.Guest.Email) {
			errs.Add(field+".guestInfo.email", "is not a valid email address")
		}
		if i.Guest.Name == "" {
			errs.Add(field+".guestInfo.name", "is required for guests")
		}
	default:
		errs.Add(field, "exactly one of userId or guestInfo.email is required")
	}
}

// ValidateIdentity checks a caller-supplied identity.
func ValidateIdentity(i Identity) error {
	var errs fieldErrors
	i.validate("identity", &errs)
	return errs.Err("identity")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isValidEmail does a basic structural check.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
