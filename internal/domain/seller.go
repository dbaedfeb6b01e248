package domain

import "time"

// SellerProfile is the public page of a seller that visitors comment on and rate.
type SellerProfile struct {
	ID               string    `json:"id"`
	OwnerUserID      *string   `json:"owner_user_id,omitempty"`
	Username         string    `json:"username"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            *string   `json:"email,omitempty"`
	ConfirmedByAdmin bool      `json:"confirmed_by_admin"`
	Rating           int       `json:"rating"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID owns the profile. Profiles created from a
// visitor comment have no owner.
func (s *SellerProfile) IsOwnedBy(userID string) bool {
	return s.OwnerUserID != nil && userID != "" && *s.OwnerUserID == userID
}

// SellerFromComment records the details a visitor supplied when the seller
// they commented on was not known yet.
type SellerFromComment struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SellerRegistration is the input of a comment on a seller that may not
// exist yet.
type SellerRegistration struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Message   string
}

// NewProfile builds an unowned seller profile from the registration details.
func (r SellerRegistration) NewProfile(id string, now time.Time) *SellerProfile {
	p := &SellerProfile{
		ID:        id,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if r.Email != "" {
		email := r.Email
		p.Email = &email
	}
	return p
}

// SellerSummary is a row of the top-sellers list.
type SellerSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Rating    int    `json:"rating"`
}

// SellerPatch lists the fields an owner may change on a profile. Nil fields
// are left untouched.
type SellerPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p SellerPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil
}

// Apply copies the set fields onto s. An empty email clears it.
func (p SellerPatch) Apply(s *SellerProfile) {
	if p.FirstName != nil {
		s.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		s.LastName = *p.LastName
	}
	if p.Email != nil {
		if *p.Email == "" {
			s.Email = nil
		} else {
			email := *p.Email
			s.Email = &email
		}
	}
}

// RatingFilter bounds a rating search. Nil bounds are open.
type RatingFilter struct {
	Min *int
	Max *int
}
