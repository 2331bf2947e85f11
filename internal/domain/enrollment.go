package domain

import "time"

type EnrollmentStatus string

const (
	EnrollmentStatusPendingApproval EnrollmentStatus = "PendingApproval"
	EnrollmentStatusInProgress      EnrollmentStatus = "InProgress"
	EnrollmentStatusCompleted       EnrollmentStatus = "Completed"
	EnrollmentStatusRejected        EnrollmentStatus = "Rejected"
)

// Enrollment tracks a learner's relationship to a course, from purchase
// through approval to completion.
type Enrollment struct {
	ID              int32            `json:"id"`
	LearnerID       int32            `json:"learner_id"`
	CourseID        int32            `json:"course_id"`
	Status          EnrollmentStatus `json:"status"`
	ProgressPercent int32            `json:"progress_percent"`
	EnrolledOn      time.Time        `json:"enrolled_on"`
	WatchHistory    []WatchEntry     `json:"watch_history,omitempty"`
}

// WatchEntry is the per-video playback state for one enrollment.
type WatchEntry struct {
	ID                 int32     `json:"id"`
	EnrollmentID       int32     `json:"enrollment_id"`
	VideoID            int32     `json:"video_id"`
	LastWatchedSeconds int32     `json:"last_watched_seconds"`
	Completed          bool      `json:"completed"`
	UpdatedOn          time.Time `json:"updated_on"`
}

// HasAccess reports whether the enrollment grants access to course content.
func (e *Enrollment) HasAccess() bool {
	return e.Status == EnrollmentStatusInProgress || e.Status == EnrollmentStatusCompleted
}

// completionRatio is the fraction of a video's duration past which the video
// counts as watched even without an explicit completion flag.
const completionRatio = 0.95

// VideoCompleted reports whether a position in a video counts as completing
// it, either explicitly or by crossing the completion threshold.
func VideoCompleted(watchedSeconds, durationSeconds int32, explicit bool) bool {
	if explicit {
		return true
	}
	return float64(watchedSeconds) >= float64(durationSeconds)*completionRatio
}

// ClampWatchTime caps a reported watch position at the video's duration so a
// single video never contributes more than its own length to progress.
func ClampWatchTime(watchedSeconds, durationSeconds int32) int32 {
	if watchedSeconds > durationSeconds {
		return durationSeconds
	}
	return watchedSeconds
}

// ComputeProgress returns round(100 * watched / total) over all course
// videos, with each entry's watch time clamped to its video's duration.
// A course with no videos has zero progress.
func ComputeProgress(videos []Video, history []WatchEntry) int32 {
	var total int64
	durations := make(map[int32]int32, len(videos))
	for _, v := range videos {
		total += int64(v.DurationSeconds)
		durations[v.ID] = v.DurationSeconds
	}
	if total == 0 {
		return 0
	}

	var watched int64
	for _, h := range history {
		d, ok := durations[h.VideoID]
		if !ok {
			continue
		}
		watched += int64(ClampWatchTime(h.LastWatchedSeconds, d))
	}

	return int32((watched*100 + total/2) / total)
}

// AllVideosCompleted reports whether every course video has a completed
// watch entry. A course with no videos is never complete.
func AllVideosCompleted(videos []Video, history []WatchEntry) bool {
	if len(videos) == 0 {
		return false
	}
	completed := make(map[int32]bool, len(history))
	for _, h := range history {
		if h.Completed {
			completed[h.VideoID] = true
		}
	}
	for _, v := range videos {
		if !completed[v.ID] {
			return false
		}
	}
	return true
}
