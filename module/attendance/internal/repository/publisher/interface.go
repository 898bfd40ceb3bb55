package publisher

import (
	"context"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
)

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *domain.DecisionAlert) error
}
