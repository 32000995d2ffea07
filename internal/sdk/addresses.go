// Package sdk binds every fixed SDK address (spec.md §4.7) to a host
// function adapter over internal/device, internal/display, and
// internal/input, and registers them into an internal/jumptable.Builder.
package sdk

// SDK addresses, spec.md §4.7 plus the supplemented controller and
// competition-convenience addresses from SPEC_FULL.md §4.7.
const (
	AddrForegroundColor       = 0x640
	AddrBackgroundColor       = 0x644
	AddrCopyRect              = 0x654
	AddrRectDraw              = 0x668
	AddrRectFill              = 0x670
	AddrCircleDraw            = 0x674
	AddrCircleFill            = 0x67c
	AddrVprintf               = 0x680
	AddrVstring               = 0x684
	AddrVsmallStringAt        = 0x6b0
	AddrStringWidthGet        = 0x6c0
	AddrStringHeightGet       = 0x6c4
	AddrRender                = 0x7a0
	AddrDoubleBufferDisable   = 0x7a4
	AddrControllerConnected   = 0x720
	AddrControllerAnalog      = 0x724
	AddrControllerDigital     = 0x728
	AddrSerialWriteBuffer     = 0x89c
	AddrSerialWriteFree       = 0x8ac
	AddrSerialReadByte        = 0x8b0
	AddrTasksRun              = 0x05c
	AddrSystemExitRequest     = 0x130
	AddrSystemHighResTime     = 0x134
	AddrCompetitionStatus     = 0x9d8
	AddrCompetitionDisabled   = 0x9dc
	AddrCompetitionAutonomous = 0x9e0
	AddrCompetitionConnected  = 0x9e4
	AddrCompetitionIsComp     = 0x9e8
)
