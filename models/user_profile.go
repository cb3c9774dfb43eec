package models

// UserProfile defines the structure for user profiles. Profile CRUD is an
// external collaborator of the matching core; the core only needs the
// display name for notification text.
type UserProfile struct {
	UserID    string   `dynamodbav:"userId" json:"userId"`
	FullName  string   `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	EmailID   string   `dynamodbav:"emailId,omitempty" json:"emailId,omitempty"`
	Bio       string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Major     string   `dynamodbav:"major,omitempty" json:"major,omitempty"`
	Year      string   `dynamodbav:"year,omitempty" json:"year,omitempty"`
	Interests []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	PhotoKey  string   `dynamodbav:"photoKey,omitempty" json:"photoKey,omitempty"`
}

// UserProfilesTable is the table name for user profiles
const UserProfilesTable = "UserProfiles"
