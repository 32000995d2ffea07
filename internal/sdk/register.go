package sdk

import "github.com/vexide/vex-sdk-sim/internal/jumptable"

// Register populates b with every SDK address this simulator implements,
// bound to s's methods. Called once at boot.
func Register(b *jumptable.Builder, s *Shims) {
	b.Insert(AddrForegroundColor, s.foregroundColor)
	b.Insert(AddrBackgroundColor, s.backgroundColor)
	b.Insert(AddrRectDraw, s.rectDraw)
	b.Insert(AddrRectFill, s.rectFill)
	b.Insert(AddrCircleDraw, s.circleDraw)
	b.Insert(AddrCircleFill, s.circleFill)
	b.Insert(AddrStringWidthGet, s.stringWidthGet)
	b.Insert(AddrStringHeightGet, s.stringHeightGet)
	b.Insert(AddrRender, s.render)
	b.Insert(AddrDoubleBufferDisable, s.doubleBufferDisable)
	b.Insert(AddrVprintf, s.vprintf)
	b.Insert(AddrVstring, s.vstring)
	b.Insert(AddrVsmallStringAt, s.vsmallStringAt)
	b.Insert(AddrCopyRect, s.copyRect)
	b.Insert(AddrSerialWriteBuffer, s.serialWriteBuffer)
	b.Insert(AddrSerialWriteFree, s.serialWriteFree)
	b.Insert(AddrSerialReadByte, s.serialReadByte)
	b.Insert(AddrTasksRun, s.tasksRun)
	b.Insert(AddrSystemHighResTime, s.systemHighResTimeGet)
	b.Insert(AddrSystemExitRequest, s.systemExitRequest)
	b.Insert(AddrCompetitionStatus, s.competitionStatus)
	b.Insert(AddrCompetitionDisabled, s.competitionDisabled)
	b.Insert(AddrCompetitionAutonomous, s.competitionAutonomous)
	b.Insert(AddrCompetitionConnected, s.competitionConnected)
	b.Insert(AddrCompetitionIsComp, s.competitionIsCompetition)
	b.Insert(AddrControllerConnected, s.controllerConnected)
	b.Insert(AddrControllerAnalog, s.controllerAnalog)
	b.Insert(AddrControllerDigital, s.controllerDigital)
}
