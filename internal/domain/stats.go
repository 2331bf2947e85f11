package domain

import "time"

// CourseStats is one row of the instructor dashboard.
type CourseStats struct {
	Course           Course `json:"course"`
	EnrolledLearners int32  `json:"enrolled_learners"`
	PendingApprovals int32  `json:"pending_approvals"`
	// Lump sum plus commission over approved enrollments, in cents.
	EarningsCents int64 `json:"earnings_cents"`
}

// PendingEnrollment is a purchase awaiting the instructor's decision.
type PendingEnrollment struct {
	Transaction Transaction `json:"transaction"`
	Learner     User        `json:"learner"`
	Course      Course      `json:"course"`
}

// EarningsPoint is one month of a revenue or earnings chart.
type EarningsPoint struct {
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	AmountCents int64      `json:"amount_cents"`
	Enrollments int32      `json:"enrollments"`
}

// PlatformStats is the admin dashboard snapshot.
type PlatformStats struct {
	TotalCourses         int32           `json:"total_courses"`
	TotalLearners        int32           `json:"total_learners"`
	TotalInstructors     int32           `json:"total_instructors"`
	TotalEnrollments     int32           `json:"total_enrollments"`
	PlatformBalanceCents int64           `json:"platform_balance_cents"`
	TotalRevenueCents    int64           `json:"total_revenue_cents"`
	// The 20% of purchase revenue the platform retains.
	PlatformIncomeCents int64           `json:"platform_income_cents"`
	MonthlyRevenue      []EarningsPoint `json:"monthly_revenue"`
}

// BuyableCourse is a course listed to a learner who has not purchased it.
type BuyableCourse struct {
	Course           Course `json:"course"`
	EnrolledLearners int32  `json:"enrolled_learners"`
}

// EnrolledCourse pairs an enrollment with its course for the learner's list.
type EnrolledCourse struct {
	Course      Course       `json:"course"`
	Enrollment  Enrollment   `json:"enrollment"`
	Certificate *Certificate `json:"certificate,omitempty"`
}

// CourseContent is the full course payload for an enrolled learner.
type CourseContent struct {
	Course      Course       `json:"course"`
	Enrollment  Enrollment   `json:"enrollment"`
	Certificate *Certificate `json:"certificate,omitempty"`
}

// ProgressUpdate is the outcome of recording a watch position.
type ProgressUpdate struct {
	EnrollmentID    int32        `json:"enrollment_id"`
	ProgressPercent int32        `json:"progress_percent"`
	VideoCompleted  bool         `json:"video_completed"`
	CourseCompleted bool         `json:"course_completed"`
	Certificate     *Certificate `json:"certificate,omitempty"`
}

// ReconciliationReport summarizes one duplicate-purchase sweep.
type ReconciliationReport struct {
	ScannedTransactions   int32 `json:"scanned_transactions"`
	DuplicateGroups       int32 `json:"duplicate_groups"`
	RemovedTransactions   int32 `json:"removed_transactions"`
	RemovedEnrollments    int32 `json:"removed_enrollments"`
	RefundedCents         int64 `json:"refunded_cents"`
	ClawedBackCents       int64 `json:"clawed_back_cents"`
	PlatformAbsorbedCents int64 `json:"platform_absorbed_cents"`
}
