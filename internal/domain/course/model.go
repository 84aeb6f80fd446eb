package course

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxYouTubeURLLength  = 2048
)

// Domain errors
var (
	ErrAlreadyPublished = errors.New("course is already published")
	ErrNotPublished     = errors.New("course is not published")
)

// Course is a learning-management course: ordered video lessons plus a
// markdown description rendered on the student portal.
type Course struct {
	ID          string
	Title       string
	Description string // markdown
	Belt        string // recommended belt level, optional
	Published   bool
	CreatedBy   string // account ID of the creator
	CreatedAt   time.Time
}

// Video is a single lesson within a course.
type Video struct {
	ID         string
	CourseID   string
	Title      string
	YouTubeURL string
	YouTubeID  string // extracted video ID
	Position   int    // 0-based order within the course
}

var youtubeIDRegex = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)

// Validate checks the course's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("course title cannot be empty")
	}
	if len(c.Title) > MaxTitleLength {
		return errors.New("course title cannot exceed 200 characters")
	}
	if len(c.Description) > MaxDescriptionLength {
		return errors.New("course description cannot exceed 5000 characters")
	}
	return nil
}

// Publish makes the course visible to students.
// PRE: Course is not already published
// POST: Published is true
func (c *Course) Publish() error {
	if c.Published {
		return ErrAlreadyPublished
	}
	c.Published = true
	return nil
}

// Unpublish hides the course from students.
// PRE: Course is published
// POST: Published is false
func (c *Course) Unpublish() error {
	if !c.Published {
		return ErrNotPublished
	}
	c.Published = false
	return nil
}

// Validate checks the video's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (v *Video) Validate() error {
	if v.CourseID == "" {
		return errors.New("video course ID cannot be empty")
	}
	if strings.TrimSpace(v.Title) == "" {
		return errors.New("video title cannot be empty")
	}
	if len(v.Title) > MaxTitleLength {
		return errors.New("video title cannot exceed 200 characters")
	}
	if v.YouTubeURL == "" {
		return errors.New("video YouTube URL cannot be empty")
	}
	if len(v.YouTubeURL) > MaxYouTubeURLLength {
		return errors.New("video YouTube URL cannot exceed 2048 characters")
	}
	if v.Position < 0 {
		return errors.New("video position cannot be negative")
	}
	return nil
}

// ExtractYouTubeID parses the YouTube video ID from the URL.
// PRE: YouTubeURL is set
// POST: sets YouTubeID if a valid ID is found, returns error otherwise
func (v *Video) ExtractYouTubeID() error {
	matches := youtubeIDRegex.FindStringSubmatch(v.YouTubeURL)
	if len(matches) < 2 {
		return errors.New("could not extract YouTube video ID from URL")
	}
	v.YouTubeID = matches[1]
	return nil
}
