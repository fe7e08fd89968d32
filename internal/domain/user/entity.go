package user

// User represents a GitHub user. ID and Login are assigned by the remote
// source; every other field is optional. A record is always replaced whole,
// never merged, so field pointers carry "absent" faithfully across writes.
type User struct {
	ID                int64   `json:"id"`
	Login             string  `json:"login"`
	AvatarURL         *string `json:"avatar_url,omitempty"`
	GravatarID        *string `json:"gravatar_id,omitempty"`
	URL               *string `json:"url,omitempty"`
	HTMLURL           *string `json:"html_url,omitempty"`
	FollowersURL      *string `json:"followers_url,omitempty"`
	FollowingURL      *string `json:"following_url,omitempty"`
	GistsURL          *string `json:"gists_url,omitempty"`
	StarredURL        *string `json:"starred_url,omitempty"`
	SubscriptionsURL  *string `json:"subscriptions_url,omitempty"`
	OrganizationsURL  *string `json:"organizations_url,omitempty"`
	ReposURL          *string `json:"repos_url,omitempty"`
	EventsURL         *string `json:"events_url,omitempty"`
	ReceivedEventsURL *string `json:"received_events_url,omitempty"`
	Type              *string `json:"type,omitempty"`
	SiteAdmin         *bool   `json:"site_admin,omitempty"`
	Name              *string `json:"name,omitempty"`
	Company           *string `json:"company,omitempty"`
	Blog              *string `json:"blog,omitempty"`
	Location          *string `json:"location,omitempty"`
	Email             *string `json:"email,omitempty"`
	Hireable          *bool   `json:"hireable,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	TwitterUsername   *string `json:"twitter_username,omitempty"`
	PublicRepos       *int64  `json:"public_repos,omitempty"`
	PublicGists       *int64  `json:"public_gists,omitempty"`
	Followers         *int64  `json:"followers,omitempty"`
	Following         *int64  `json:"following,omitempty"`
	CreatedAt         *string `json:"created_at,omitempty"`
	UpdatedAt         *string `json:"updated_at,omitempty"`
}
