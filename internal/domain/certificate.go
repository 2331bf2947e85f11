package domain

import "time"

// Certificate is awarded once per (learner, course) when every video of an
// InProgress enrollment has been completed.
type Certificate struct {
	ID            int32     `json:"id"`
	CertificateID string    `json:"certificate_id"`
	LearnerID     int32     `json:"learner_id"`
	CourseID      int32     `json:"course_id"`
	IssuedOn      time.Time `json:"issued_on"`
}
