package service

import (
	"context"
	"fmt"
)

// SendReminders emails every user the payments due in the reminder window
// and warns those whose 30-day forecast goes negative. It returns how many
// emails went out. A failure for one user does not stop the others.
func (s *Service) SendReminders(ctx context.Context) (int, error) {
	if s.notifier == nil {
		s.log.Debug("No notifier configured, skipping reminders")
		return 0, nil
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	sent := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		days, err := s.Calendar(ctx, user.ID, s.config.ReminderDays)
		if err != nil {
			s.log.Errorf("Failed to build payment calendar for user %d: %v", user.ID, err)
			continue
		}
		if len(days) > 0 {
			if err := s.notifier.SendPaymentReminder(user.Email, user.Username, days); err != nil {
				s.log.Errorf("Failed to send payment reminder to user %d: %v", user.ID, err)
			} else {
				sent++
			}
		}

		summary, err := s.Summary(ctx, user.ID)
		if err != nil {
			s.log.Errorf("Failed to build summary for user %d: %v", user.ID, err)
			continue
		}
		if summary.DaysUntilNegative >= 0 {
			if err := s.notifier.SendLowBalanceWarning(user.Email, user.Username, summary); err != nil {
				s.log.Errorf("Failed to send low balance warning to user %d: %v", user.ID, err)
			} else {
				sent++
			}
		}
	}

	s.log.Infof("Reminder run finished: %d users, %d emails", len(users), sent)
	return sent, nil
}
