package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	leadRepo "chalethaven/database/repository/contact"
	"chalethaven/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Notifier is told about every stored lead. Failures never fail the submission.
type Notifier interface {
	NotifyLead(ctx context.Context, lead models.Lead) error
}

// ValidationError lists the offending fields of a contact form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range fieldOrder {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, " ")
}

var fieldOrder = []string{"name", "email", "phone", "subject", "message", "chalet"}

type Service struct {
	leads    leadRepo.LeadRepository
	notifier Notifier
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(leads leadRepo.LeadRepository, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{leads: leads, notifier: notifier, validate: validator.New(), logger: logger}
}

// Submit validates the form, stores it as a lead and queues the owner notification.
func (s *Service) Submit(ctx context.Context, req models.ContactRequest) (*models.Lead, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	req.Chalet = strings.TrimSpace(req.Chalet)

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, toValidationError(verrs)
		}
		return nil, err
	}

	lead := &models.Lead{
		Name:    req.Name,
		Email:   strings.ToLower(req.Email),
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Chalet:  req.Chalet,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to save enquiry: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, *lead); err != nil {
			s.logger.Warn("lead stored but notification not queued", zap.String("leadID", lead.ID), zap.Error(err))
		}
	}
	s.logger.Info("contact lead stored", zap.String("leadID", lead.ID))
	return lead, nil
}

func toValidationError(verrs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if _, seen := out.Fields[field]; seen {
			continue
		}
		out.Fields[field] = fieldMessage(field, fe.Tag(), fe.Param())
	}
	return out
}

func fieldMessage(field, tag, param string) string {
	label := strings.ToUpper(field[:1]) + field[1:]
	switch tag {
	case "required":
		return label + " is required."
	case "email":
		return "Please enter a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, param)
	}
	return label + " is invalid."
}
