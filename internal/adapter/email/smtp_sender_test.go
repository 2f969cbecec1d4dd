package email

import (
	"context"
	"testing"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPSender_IncompleteConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.SMTPConfig
	}{
		{name: "Missing Host", cfg: config.SMTPConfig{Port: 587, SenderEmail: "sender@example.com"}},
		{name: "Missing Port", cfg: config.SMTPConfig{Host: "smtp.example.com", SenderEmail: "sender@example.com"}},
		{name: "Missing SenderEmail", cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 587}},
		{name: "All Missing", cfg: config.SMTPConfig{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sender, err := NewSMTPSender(tc.cfg, logger.NewNop())
			require.Error(t, err)
			assert.Nil(t, sender)
		})
	}
}

func TestSMTPSender_Send_RejectsEmptyInput(t *testing.T) {
	sender, err := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: 587, SenderEmail: "sender@example.com"}, logger.NewNop())
	require.NoError(t, err)

	err = sender.Send(context.Background(), nil, "subject", "<p>x</p>", "x")
	assert.ErrorContains(t, err, "no recipients")

	err = sender.Send(context.Background(), []string{"a@b.com"}, "subject", "", "")
	assert.ErrorContains(t, err, "body")
}

func TestSMTPSender_From(t *testing.T) {
	s := &smtpSender{cfg: config.SMTPConfig{SenderEmail: "no-reply@dealer.uz", SenderName: "Dealer"}}
	assert.Equal(t, "Dealer <no-reply@dealer.uz>", s.from())

	s.cfg.SenderName = ""
	assert.Equal(t, "no-reply@dealer.uz", s.from())
}
