// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
}

type UsageWarningData struct {
	Name      string
	PlanName  string
	Remaining int
	Limit     int
	ResetDate time.Time
	AtLimit   bool
}

type SubscriptionEmailData struct {
	Name      string
	PlanName  string
	Price     float64
	Currency  string
	Interval  string
	ExpiresAt time.Time
	IsRenewal bool
}

type SubscriptionCancelledData struct {
	Name      string
	PlanName  string
	ExpiresAt time.Time
}

type ReferralBonusData struct {
	Name         string
	ReferredName string
	Credits      int
}

type PasswordResetData struct {
	ResetLink string
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "PostPro AI <noreply@postpro-ai.com>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("Resend API error: Status: %d, Body: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name string) error {
	data := WelcomeEmailData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Welcome to PostPro AI! 🎉", "welcome.html", data)
}

func (s *EmailService) SendUsageWarningEmail(email, name, planName string, remaining, limit int, resetDate time.Time) error {
	data := UsageWarningData{
		Name:      name,
		PlanName:  planName,
		Remaining: remaining,
		Limit:     limit,
		ResetDate: resetDate,
		AtLimit:   remaining == 0,
	}
	subject := "You're close to your monthly enhancement limit"
	if remaining == 0 {
		subject = "You've reached your monthly enhancement limit"
	}
	return s.sendTemplateEmail(email, subject, "usage_warning.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(
	email, name, planName string,
	price float64,
	currency, interval string,
	expiresAt time.Time,
	isRenewal bool,
) error {
	data := SubscriptionEmailData{
		Name:      name,
		PlanName:  planName,
		Price:     price,
		Currency:  currency,
		Interval:  interval,
		ExpiresAt: expiresAt,
		IsRenewal: isRenewal,
	}

	subject := "Your PostPro AI subscription is active! ✨"
	if isRenewal {
		subject = "Your PostPro AI subscription has renewed"
	}
	return s.sendTemplateEmail(email, subject, "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, name, planName string, expiresAt time.Time) error {
	data := SubscriptionCancelledData{
		Name:      name,
		PlanName:  planName,
		ExpiresAt: expiresAt,
	}
	return s.sendTemplateEmail(email, "Your subscription has been cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendReferralBonusEmail(email, name, referredName string, credits int) error {
	data := ReferralBonusData{
		Name:         name,
		ReferredName: referredName,
		Credits:      credits,
	}
	return s.sendTemplateEmail(email, "You earned referral credits! 🎁", "referral_bonus.html", data)
}

func (s *EmailService) SendPasswordResetEmail(email, resetLink string) error {
	data := PasswordResetData{
		ResetLink: resetLink,
	}
	return s.sendTemplateEmail(email, "Reset your PostPro AI password", "password_reset.html", data)
}
