package commands

import "time"

// Clock overrides used by handler tests to pin wall-clock dependent rules,
// OTP expiry above all, to a fixed instant.

func (h *VerifyOtpCommandHandler) SetClock(now func() time.Time) { h.now = now }

func (h *StartDeliveryAttemptCommandHandler) SetClock(now func() time.Time) { h.now = now }

func (h *CollectCodCommandHandler) SetClock(now func() time.Time) { h.now = now }
