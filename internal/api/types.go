package api

import (
	"io"
	"time"
)

// Category is the fixed set of tip categories the service accepts.
type Category string

const (
	CategoryStorage     Category = "Storage"
	CategoryPrep        Category = "Prep"
	CategorySubstitutes Category = "Substitutes"
)

// Categories lists all tip categories in display order.
var Categories = []Category{CategoryStorage, CategoryPrep, CategorySubstitutes}

// Tip is a user-authored cooking tip with aggregate rating statistics.
// The aggregates are maintained server-side; the client never sees the full
// rating distribution, only these fields plus its own prior rating.
type Tip struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        Category  `json:"category"`
	UserID          string    `json:"userId"`
	UserDisplayName string    `json:"userDisplayName"`
	CreatedAt       time.Time `json:"createdAt"`
	AverageRating   float64   `json:"averageRating"`
	RatingCount     int       `json:"ratingCount"`
	ReviewCount     int       `json:"reviewCount"`
	Featured        bool      `json:"featured"`
}

// TipDraft carries the user-editable fields of a tip for create and update.
type TipDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// TipComment is a review left on a tip. UserID is empty for anonymous
// comments; only the author may edit or delete it.
type TipComment struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId,omitempty"`
	UserName string    `json:"userName"`
	Text     string    `json:"text"`
	Rating   int       `json:"rating"`
	Time     time.Time `json:"time"`
}

// CommentDraft carries the user-editable fields of a comment.
type CommentDraft struct {
	Text     string `json:"text"`
	Rating   int    `json:"rating"`
	UserName string `json:"userName,omitempty"`
}

// Challenge is a time-boxed cooking contest. A challenge is active while the
// current time is before EndDate; past challenges are read-only for
// submissions.
type Challenge struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Theme       string        `json:"theme"`
	Description string        `json:"description"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	CreatorID   string        `json:"userId,omitempty"`
	Submissions []*Submission `json:"submissions"`
}

// Active reports whether the challenge still accepts submissions and votes.
func (c *Challenge) Active(now time.Time) bool {
	return now.Before(c.EndDate)
}

// Submission is a recipe entered into a challenge, carrying its vote tally
// and the ids of users who already voted. A user id appears at most once in
// VotedUserIDs.
type Submission struct {
	RecipeID     string   `json:"recipeId"`
	UserID       string   `json:"userId"`
	Votes        int      `json:"votes"`
	VotedUserIDs []string `json:"votedUserIds"`
}

// HasVoted reports whether the given viewer already voted for this submission.
func (s *Submission) HasVoted(viewerID string) bool {
	for _, id := range s.VotedUserIDs {
		if id == viewerID {
			return true
		}
	}

	return false
}

// ChallengeForm carries the fields of a challenge create or update. All
// fields are optional on update: a nil field is left out of the request
// entirely and the service keeps the stored value.
type ChallengeForm struct {
	Title       *string
	Theme       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time

	// ImageName and Image attach a header image. Image is read once per
	// request, so a fresh reader is needed for retries.
	ImageName string
	Image     io.Reader
}

// Recipe is the subset of recipe data the challenge views need to resolve
// submissions against.
type Recipe struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
