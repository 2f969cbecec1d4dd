package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	args := m.Called(ctx, to, subject, bodyHTML, bodyText)
	return args.Error(0)
}

func bodyContains(sub string) interface{} {
	return mock.MatchedBy(func(body string) bool { return strings.Contains(body, sub) })
}

func TestNotifier_SendVerificationCode(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, 10)

	sender.On("Send", mock.Anything, []string{"a@b.com"}, subjectVerification,
		bodyContains("<b>012345</b>"), bodyContains("10 minutes"),
	).Return(nil).Once()

	require.NoError(t, n.SendVerificationCode(context.Background(), "a@b.com", "Ali", "012345"))
	sender.AssertExpectations(t)
}

func TestNotifier_SendPasswordReset_EscapesName(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, 10)

	noScript := mock.MatchedBy(func(body string) bool { return !strings.Contains(body, "<script>") })
	sender.On("Send", mock.Anything, []string{"a@b.com"}, subjectPasswordReset, noScript, mock.Anything).Return(nil).Once()

	require.NoError(t, n.SendPasswordReset(context.Background(), "a@b.com", "<script>x</script>", "111111"))
	sender.AssertExpectations(t)
}

func TestNotifier_OrderEmails(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, 10)
	order := &entity.Order{
		OrderNumber: "ORD-ABCDEF12",
		Items:       []entity.OrderItem{{VehicleID: "v1", Quantity: 2, Price: 100}},
		TotalAmount: 200,
		Status:      entity.StatusConfirmed,
	}

	sender.On("Send", mock.Anything, []string{"a@b.com"}, "Order ORD-ABCDEF12 received", bodyContains("200.00"), mock.Anything).
		Return(nil).Once()
	sender.On("Send", mock.Anything, []string{"a@b.com"}, "Order ORD-ABCDEF12 is now confirmed", mock.Anything, mock.Anything).
		Return(errors.New("smtp down")).Once()

	require.NoError(t, n.SendOrderConfirmation(context.Background(), "a@b.com", order))
	assert.Error(t, n.SendOrderStatusUpdate(context.Background(), "a@b.com", order))
	sender.AssertExpectations(t)
}
