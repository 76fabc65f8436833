package modbusctrl

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	mbserver "github.com/tbrandon/mbserver"

	"github.com/Agrid-Dev/rcdemand/internal/demand"
	"github.com/Agrid-Dev/rcdemand/internal/ports"
	"github.com/Agrid-Dev/rcdemand/internal/report"
)

// Register map. The holding register selects which building the input
// registers and coils describe.
const (
	HRSelectedBuilding = 0
	HRCount            = 1

	CoilCompleted = 0
	CoilFailed    = 1
	CoilCount     = 2

	IRBuildingCount  = 0
	IRHours          = 1
	IRHeatingEnergy  = 2 // int32, 0.1 kWh
	IRCoolingEnergy  = 4 // int32, 0.1 kWh
	IRPeakHeating    = 6 // int32, W
	IRPeakCooling    = 8 // int32, W
	IRUnmetHeating   = 10
	IRUnmetCooling   = 11
	IRMeanIndoorTemp = 12
	IRMinIndoorTemp  = 13
	IRMaxIndoorTemp  = 14
	IRFailureKind    = 15
	IRFailureHour    = 16
	IRCount          = 17
)

// Failure kinds reported in IRFailureKind.
const (
	FailureNone uint16 = iota
	FailureProbeDegeneracy
	FailureCapacityInconsistency
	FailureOther
)

// Config for the Modbus controller.
type Config struct {
	Addr   string
	UnitID byte // UnitID (Modbus slave/unit ID). Use an integer 1..247.
}

type Controller struct {
	svc ports.ResultsService
	cfg Config

	selected atomic.Uint32
	serv     *mbserver.Server
}

func New(svc ports.ResultsService, cfg Config) (*Controller, error) {
	if svc == nil {
		return nil, errors.New("modbus: results service is required")
	}
	if cfg.UnitID == 0 {
		return nil, errors.New("modbus: UnitID is required (non-zero)")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:1502"
	}
	return &Controller{svc: svc, cfg: cfg}, nil
}

// Run starts the Modbus server and serves reads directly from the results
// service. It blocks until ctx is canceled.
func (c *Controller) Run(ctx context.Context) error {
	serv := mbserver.NewServer()
	c.serv = serv

	// Register handlers BEFORE starting the TCP listener to avoid races inside mbserver
	// between handler registration and the server's goroutines.
	serv.RegisterFunctionHandler(1, c.readCoils)
	serv.RegisterFunctionHandler(3, c.readHolding)
	serv.RegisterFunctionHandler(4, c.readInput)
	serv.RegisterFunctionHandler(6, c.writeSingle)
	serv.RegisterFunctionHandler(16, c.writeMultiple)

	// Results are read-only.
	readOnly := func(*mbserver.Server, mbserver.Framer) ([]byte, *mbserver.Exception) {
		return []byte{}, &mbserver.IllegalFunction
	}
	serv.RegisterFunctionHandler(5, readOnly)
	serv.RegisterFunctionHandler(15, readOnly)

	if err := serv.ListenTCP(c.cfg.Addr); err != nil {
		return fmt.Errorf("mbserver listen tcp %s: %w", c.cfg.Addr, err)
	}

	<-ctx.Done()
	serv.Close()
	return ctx.Err()
}

// Read Coils (function 1): completed and failed flags of the selected building.
func (c *Controller) readCoils(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	start, qty, exc := readRange(frame.GetData(), CoilCount)
	if exc != nil {
		return []byte{}, exc
	}
	sum, _ := c.current()
	flags := [CoilCount]bool{sum.Completed, sum.Failure != nil}

	var b byte
	for i := 0; i < qty; i++ {
		if flags[start+i] {
			b |= 1 << i
		}
	}
	// response: byte count (1) + coil bytes
	return []byte{1, b}, &mbserver.Success
}

// Read Holding Registers (function 3).
func (c *Controller) readHolding(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	start, qty, exc := readRange(frame.GetData(), HRCount)
	if exc != nil {
		return []byte{}, exc
	}
	regs := []uint16{uint16(c.selected.Load())}
	return registerResponse(regs[start : start+qty]), &mbserver.Success
}

// Read Input Registers (function 4): the summary of the selected building.
func (c *Controller) readInput(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	start, qty, exc := readRange(frame.GetData(), IRCount)
	if exc != nil {
		return []byte{}, exc
	}
	sum, count := c.current()
	regs := inputRegisters(sum, count)
	return registerResponse(regs[start : start+qty]), &mbserver.Success
}

// Write Single Register (function 6).
func (c *Controller) writeSingle(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	data := frame.GetData()
	if len(data) < 4 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	addr := binary.BigEndian.Uint16(data[0:2])
	value := binary.BigEndian.Uint16(data[2:4])
	if exc := c.writeRegister(int(addr), value); exc != nil {
		return []byte{}, exc
	}

	resp := make([]byte, 4)
	copy(resp, data[0:4])
	return resp, &mbserver.Success
}

// Write Multiple Registers (function 16).
func (c *Controller) writeMultiple(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	d := frame.GetData()
	if len(d) < 5 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	start := binary.BigEndian.Uint16(d[0:2])
	quantity := binary.BigEndian.Uint16(d[2:4])
	byteCount := int(d[4])
	if byteCount != int(quantity)*2 || len(d) < 5+byteCount {
		return []byte{}, &mbserver.IllegalDataValue
	}
	for i := 0; i < int(quantity); i++ {
		val := binary.BigEndian.Uint16(d[5+i*2 : 5+i*2+2])
		if exc := c.writeRegister(int(start)+i, val); exc != nil {
			return []byte{}, exc
		}
	}

	resp := make([]byte, 4)
	binary.BigEndian.PutUint16(resp[0:2], start)
	binary.BigEndian.PutUint16(resp[2:4], quantity)
	return resp, &mbserver.Success
}

func (c *Controller) writeRegister(addr int, value uint16) *mbserver.Exception {
	switch addr {
	case HRSelectedBuilding:
		if int(value) >= len(c.svc.Summaries()) {
			return &mbserver.IllegalDataValue
		}
		c.selected.Store(uint32(value))
		return nil
	default:
		return &mbserver.IllegalDataAddress
	}
}

// current returns the selected summary, zero when the selection no longer
// points at a building, and the number of buildings.
func (c *Controller) current() (report.Summary, int) {
	sums := c.svc.Summaries()
	i := int(c.selected.Load())
	if i >= len(sums) {
		return report.Summary{}, len(sums)
	}
	return sums[i], len(sums)
}

func inputRegisters(s report.Summary, count int) []uint16 {
	regs := make([]uint16, IRCount)
	regs[IRBuildingCount] = clampUint16(count)
	regs[IRHours] = clampUint16(s.Hours)
	putInt32(regs[IRHeatingEnergy:], s.HeatingKWh*EnergyScale)
	putInt32(regs[IRCoolingEnergy:], s.CoolingKWh*EnergyScale)
	putInt32(regs[IRPeakHeating:], s.PeakHeatingW)
	putInt32(regs[IRPeakCooling:], s.PeakCoolingW)
	regs[IRUnmetHeating] = clampUint16(s.UnmetHeatingHours)
	regs[IRUnmetCooling] = clampUint16(s.UnmetCoolingHours)
	regs[IRMeanIndoorTemp] = encodeTemp(s.MeanIndoorTemp)
	regs[IRMinIndoorTemp] = encodeTemp(s.MinIndoorTemp)
	regs[IRMaxIndoorTemp] = encodeTemp(s.MaxIndoorTemp)
	if s.Failure != nil {
		regs[IRFailureKind] = failureCode(s.Failure.Kind)
		regs[IRFailureHour] = clampUint16(s.Failure.Hour)
	}
	return regs
}

func failureCode(kind string) uint16 {
	switch kind {
	case demand.KindProbeDegeneracy.String():
		return FailureProbeDegeneracy
	case demand.KindCapacityInconsistency.String():
		return FailureCapacityInconsistency
	default:
		return FailureOther
	}
}

// readRange decodes a start/quantity request against a bank of size registers.
func readRange(data []byte, size int) (int, int, *mbserver.Exception) {
	if len(data) < 4 {
		return 0, 0, &mbserver.IllegalDataValue
	}
	start := int(binary.BigEndian.Uint16(data[0:2]))
	qty := int(binary.BigEndian.Uint16(data[2:4]))
	if qty == 0 || qty > 125 {
		return 0, 0, &mbserver.IllegalDataValue
	}
	if start+qty > size {
		return 0, 0, &mbserver.IllegalDataAddress
	}
	return start, qty, nil
}

// registerResponse builds byte count + register bytes.
func registerResponse(regs []uint16) []byte {
	byteCount := len(regs) * 2
	resp := make([]byte, 1+byteCount)
	resp[0] = byte(byteCount)
	for i, r := range regs {
		binary.BigEndian.PutUint16(resp[1+i*2:1+i*2+2], r)
	}
	return resp
}

const (
	TemperatureScale int = 100
	EnergyScale          = 10
)

func encodeTemp(v float64) uint16 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r := min(max(int(math.Round(v*float64(TemperatureScale))), math.MinInt16), math.MaxInt16)
	return uint16(int16(r))
}

func decodeTemp(u uint16) float64 {
	i := int16(u)
	return float64(i) / float64(TemperatureScale)
}

// putInt32 writes v, rounded and saturated, as two big-endian registers.
func putInt32(regs []uint16, v float64) {
	var i int32
	switch {
	case math.IsNaN(v):
	case v >= math.MaxInt32:
		i = math.MaxInt32
	case v <= math.MinInt32:
		i = math.MinInt32
	default:
		i = int32(math.Round(v))
	}
	u := uint32(i)
	regs[0] = uint16(u >> 16)
	regs[1] = uint16(u)
}

func decodeInt32(hi, lo uint16) int32 {
	return int32(uint32(hi)<<16 | uint32(lo))
}

func clampUint16(v int) uint16 {
	return uint16(min(max(v, 0), math.MaxUint16))
}
