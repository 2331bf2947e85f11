package domain

type Course struct {
	ID           int32      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PriceCents   int64      `json:"price_cents"`
	LumpSumCents int64      `json:"lump_sum_cents"`
	InstructorID int32      `json:"instructor_id"`
	Instructor   *User      `json:"instructor,omitempty"` // Populated when fetching course details
	Videos       []Video    `json:"videos,omitempty"`
	Resources    []Resource `json:"resources,omitempty"`
	CreatedOn    string     `json:"created_on"`
	UpdatedOn    string     `json:"updated_on"`
}

type Video struct {
	ID              int32  `json:"id"`
	CourseID        int32  `json:"course_id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	DurationSeconds int32  `json:"duration_seconds"`
	Position        int32  `json:"position"`
}

type ResourceMediaType string

const (
	ResourceMediaTypePDF   ResourceMediaType = "pdf"
	ResourceMediaTypeAudio ResourceMediaType = "audio"
	ResourceMediaTypeLink  ResourceMediaType = "link"
)

type Resource struct {
	ID        int32             `json:"id"`
	CourseID  int32             `json:"course_id"`
	Title     string            `json:"title"`
	MediaType ResourceMediaType `json:"media_type"`
	URL       string            `json:"url"`
	Position  int32             `json:"position"`
}

// TotalDurationSeconds sums the durations of all course videos.
func (c *Course) TotalDurationSeconds() int64 {
	var total int64
	for _, v := range c.Videos {
		total += int64(v.DurationSeconds)
	}
	return total
}

// DefaultLumpSumCents is the one-time payment to the instructor at course
// publication when no explicit amount was supplied: 90% of price, floored.
func DefaultLumpSumCents(priceCents int64) int64 {
	return priceCents * 90 / 100
}

// CommissionCents is the instructor's cut of one enrollment: 80% of the
// course price. The remaining 20% stays with the platform.
func CommissionCents(priceCents int64) int64 {
	return priceCents * 80 / 100
}
