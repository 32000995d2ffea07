package device

import "testing"

func TestStartExecutingIsOneWay(t *testing.T) {
	s := New()
	if s.IsExecuting() {
		t.Fatal("new state should not be executing")
	}
	if !s.StartExecuting() {
		t.Fatal("first StartExecuting should succeed")
	}
	if !s.IsExecuting() {
		t.Fatal("IsExecuting should be true after StartExecuting")
	}
	if s.StartExecuting() {
		t.Error("second StartExecuting should report failure")
	}
	if !s.IsExecuting() {
		t.Error("IsExecuting should remain true after a rejected second call")
	}
}

func TestCompetitionStatusBits(t *testing.T) {
	s := New()
	s.SetCompetition(CompetitionMode{Enabled: true, Connected: true, Autonomous: true, IsCompetition: true})

	got := s.CompetitionStatus()
	want := uint32(2 | 4 | 8) // enabled clears bit 1; autonomous|connected|is_competition set
	if got != want {
		t.Errorf("CompetitionStatus() = %#x, want %#x", got, want)
	}
}

func TestCompetitionStatusDisabledBit(t *testing.T) {
	s := New()
	if got := s.CompetitionStatus(); got&1 != 0 {
		t.Errorf("CompetitionStatus() = %#x, a fresh device defaults to enabled so the DISABLED bit should be clear", got)
	}

	s.SetCompetition(CompetitionMode{Enabled: false})
	if got := s.CompetitionStatus(); got&1 == 0 {
		t.Errorf("CompetitionStatus() = %#x, an explicitly disabled competition mode should set the DISABLED bit", got)
	}
}

func TestCompetitionFieldsAreIndependentlySettable(t *testing.T) {
	s := New()
	s.SetCompetition(CompetitionMode{Connected: true})
	c := s.Competition()
	if !c.Connected || c.Enabled || c.Autonomous || c.IsCompetition {
		t.Errorf("Competition() = %+v, want only Connected set", c)
	}
}

func TestSetAdiPortsWholesale(t *testing.T) {
	s := New()
	s.SetAdiPorts([8]int16{1, 2, 3, 4, 5, 6, 7, 8})
	if got := s.AdiPort(3); got != 4 {
		t.Errorf("AdiPort(3) = %d, want 4", got)
	}
	if got := s.AdiPort(99); got != 0 {
		t.Errorf("AdiPort(99) = %d, want 0 for out-of-range index", got)
	}
}

func TestInertSinkOnlyFields(t *testing.T) {
	s := New()
	s.SetBatteryCapacity(87)
	if got := s.BatteryCapacity(); got != 87 {
		t.Errorf("BatteryCapacity() = %d, want 87", got)
	}

	s.SetUSBSerialAttached(true)
	if !s.USBSerialAttached() {
		t.Error("USBSerialAttached() should be true after SetUSBSerialAttached(true)")
	}

	s.SetVEXLinkPort(2, true)
	if !s.VEXLinkPortOpen(2) {
		t.Error("VEXLinkPortOpen(2) should be true after SetVEXLinkPort(2, true)")
	}
	if s.VEXLinkPortOpen(3) {
		t.Error("VEXLinkPortOpen(3) should be false: never opened")
	}

	s.SetTextMetrics(1, TextMetrics{Width: 10, Height: 20})
	if got := s.TextMetricsFor(1); got != (TextMetrics{Width: 10, Height: 20}) {
		t.Errorf("TextMetricsFor(1) = %+v, want {10 20}", got)
	}
}
