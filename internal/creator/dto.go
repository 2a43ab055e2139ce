// AngelaMos | 2026
// dto.go

package creator

type UpdateProfileRequest struct {
	DisplayName *string      `json:"displayName,omitempty" validate:"omitempty,min=2,max=50"`
	Bio         *string      `json:"bio,omitempty"         validate:"omitempty,max=1000"`
	AvatarURL   *string      `json:"avatarUrl,omitempty"   validate:"omitempty,url,max=500"`
	Website     *string      `json:"website,omitempty"     validate:"omitempty,url,max=255"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
}

type ProfileResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	DisplayName string      `json:"displayName"`
	Bio         *string     `json:"bio"`
	AvatarURL   *string     `json:"avatarUrl"`
	Website     *string     `json:"website"`
	SocialLinks SocialLinks `json:"socialLinks"`
}

// PrivateProfileResponse is what the owner sees: the public profile plus
// payout configuration.
type PrivateProfileResponse struct {
	ProfileResponse
	StripeAccountID *string `json:"stripeAccountId"`
}

func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		Website:     p.Website,
		SocialLinks: p.SocialLinks,
	}
}
