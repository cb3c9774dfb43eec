package services

import (
	"context"
	"fmt"

	"unilink_server/models"
)

// ProfileSource is the external profile collaborator the notification
// gate resolves counterpart display names through.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// UserProfileService reads and writes user profiles in the document
// store. Profile onboarding/editing beyond this lives outside the core.
type UserProfileService struct {
	Store DocumentStore
}

// GetProfile retrieves a user profile by id.
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	doc, err := ups.Store.Get(ctx, models.UserProfilesTable, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileResolutionFailed, userID)
	}

	profile, err := ProfileFromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AddProfile writes a full profile document.
func (ups *UserProfileService) AddProfile(ctx context.Context, profile models.UserProfile) error {
	fields := Document{
		"userId":   profile.UserID,
		"fullName": profile.FullName,
		"emailId":  profile.EmailID,
		"bio":      profile.Bio,
		"major":    profile.Major,
		"year":     profile.Year,
		"photoKey": profile.PhotoKey,
	}
	if len(profile.Interests) > 0 {
		fields["interests"] = profile.Interests
	}
	return ups.Store.Upsert(ctx, models.UserProfilesTable, profile.UserID, fields, false)
}

// GetProfiles fetches a batch of profiles by id using an "in" query.
func (ups *UserProfileService) GetProfiles(ctx context.Context, userIDs []string) ([]models.UserProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	docs, err := ups.Store.Query(ctx, models.UserProfilesTable, []Filter{In("userId", userIDs)})
	if err != nil {
		return nil, err
	}

	profiles := make([]models.UserProfile, 0, len(docs))
	for _, doc := range docs {
		profile, err := ProfileFromDocument(doc)
		if err != nil {
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
