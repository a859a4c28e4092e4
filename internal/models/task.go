package models

import "time"

// TaskStatus enumerates scheduling states for field work.
type TaskStatus string

const (
	TaskStatusScheduled TaskStatus = "scheduled"
	TaskStatusDone      TaskStatus = "done"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Task is a scheduled field assignment (reading round, repair, disconnection).
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Kind         string     `json:"kind"`
	Zone         string     `json:"zone"`
	AssignedTo   string     `json:"assignedTo"`
	Status       TaskStatus `json:"status"`
	ScheduledFor time.Time  `json:"scheduledFor"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Announcement is a barangay-wide notice posted by the admin.
type Announcement struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	PostedBy string    `json:"postedBy"`
	PostedAt time.Time `json:"postedAt"`
}
