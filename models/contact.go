package models

import "time"

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Subject string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
	Chalet  string `json:"chalet,omitempty" validate:"omitempty,max=120"`
}

// Lead is a stored contact submission.
type Lead struct {
	ID         string     `bson:"id" json:"id"`
	Name       string     `bson:"name" json:"name"`
	Email      string     `bson:"email" json:"email"`
	Phone      string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject    string     `bson:"subject,omitempty" json:"subject,omitempty"`
	Message    string     `bson:"message" json:"message"`
	Chalet     string     `bson:"chalet,omitempty" json:"chalet,omitempty"`
	Notified   bool       `bson:"notified" json:"notified"`
	NotifiedAt *time.Time `bson:"notifiedAt,omitempty" json:"notifiedAt,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
}

// LeadNotificationPayload is queued after a lead is stored.
type LeadNotificationPayload struct {
	LeadID  string `json:"leadId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
	Chalet  string `json:"chalet,omitempty"`
}
