package usecase

import "context"

type TransportCheckOutput struct {
	Driver  string
	Healthy bool
}

// TransportCheck probes the configured mail transport's credentials.
func (s *Usecase) TransportCheck(ctx context.Context) *TransportCheckOutput {
	ctx, span := s.startSpan(ctx, "TransportCheck")
	defer span.End()

	return &TransportCheckOutput{
		Driver:  s.cfg.GetString("mail.driver"),
		Healthy: s.repoMail.Test(ctx),
	}
}
