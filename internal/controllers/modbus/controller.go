package modbusctrl

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	mbserver "github.com/tbrandon/mbserver"

	"github.com/cc0ffee/greenhouse-sim/internal/ports"
	"github.com/cc0ffee/greenhouse-sim/internal/simulation"
)

// Config for the Modbus controller.
type Config struct {
	SiteID string
	Addr   string
	UnitID byte // UnitID (Modbus slave/unit ID). Use an integer 1..247.
}

// Input register map. Temperatures are signed hundredths of °C.
const (
	RegLastInternal = iota
	RegLastExternal
	RegLastMode
	RegMinInternal
	RegMaxInternal
	RegMeanInternal
	RegRecordCount

	inputRegisterCount
)

type Controller struct {
	svc ports.SimulationService
	cfg Config

	serv *mbserver.Server
}

func New(svc ports.SimulationService, cfg Config) (*Controller, error) {
	if cfg.UnitID == 0 {
		return nil, errors.New("modbus: UnitID is required (non-zero)")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:1502"
	}
	return &Controller{svc: svc, cfg: cfg}, nil
}

// Run starts the Modbus server and serves reads directly from the latest
// simulation result. It blocks until ctx is canceled.
func (c *Controller) Run(ctx context.Context) error {
	serv := mbserver.NewServer()
	c.serv = serv

	// Register handlers BEFORE starting the TCP listener to avoid races inside mbserver
	// between handler registration and the server's goroutines.
	// Read Coils (function 1) - coil 0 is set once a result is available.
	serv.RegisterFunctionHandler(1, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := binary.BigEndian.Uint16(data[0:2])
		qty := binary.BigEndian.Uint16(data[2:4])
		if qty == 0 || qty > 2000 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		if start != 0 || qty != 1 {
			return []byte{}, &mbserver.IllegalDataAddress
		}
		coilByte := byte(0)
		if _, ok := c.svc.Latest(); ok {
			coilByte = 0x01
		}
		// response: byte count (1) + coil bytes
		return []byte{1, coilByte}, &mbserver.Success
	})

	// Read Input Registers (function 4) - summary of the latest run.
	serv.RegisterFunctionHandler(4, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := int(binary.BigEndian.Uint16(data[0:2]))
		qty := int(binary.BigEndian.Uint16(data[2:4]))
		if qty == 0 || qty > 125 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		if start+qty > inputRegisterCount {
			return []byte{}, &mbserver.IllegalDataAddress
		}
		res, _ := c.svc.Latest()
		all := inputRegisters(res)

		// Build response: byte count + register bytes
		regs := all[start : start+qty]
		byteCount := len(regs) * 2
		resp := make([]byte, 1+byteCount)
		resp[0] = byte(byteCount)
		for i, r := range regs {
			binary.BigEndian.PutUint16(resp[1+i*2:1+i*2+2], r)
		}
		return resp, &mbserver.Success
	})

	// Now start listening after all handlers are registered.
	if err := serv.ListenTCP(c.cfg.Addr); err != nil {
		return fmt.Errorf("mbserver listen tcp %s: %w", c.cfg.Addr, err)
	}

	// Block until ctx.Done()
	<-ctx.Done()
	serv.Close()
	return ctx.Err()
}

// inputRegisters encodes a result; the zero Result reads as all zeros.
func inputRegisters(res simulation.Result) [inputRegisterCount]uint16 {
	var regs [inputRegisterCount]uint16
	if len(res.Records) == 0 {
		return regs
	}
	last := res.Records[len(res.Records)-1]
	regs[RegLastInternal] = encodeTemp(last.InternalTemperature)
	regs[RegLastExternal] = encodeTemp(last.ExternalTemperature)
	regs[RegLastMode] = uint16(last.Mode)
	regs[RegMinInternal] = encodeTemp(res.Summary.Internal.Min)
	regs[RegMaxInternal] = encodeTemp(res.Summary.Internal.Max)
	regs[RegMeanInternal] = encodeTemp(res.Summary.Internal.Mean)
	regs[RegRecordCount] = uint16(min(len(res.Records), math.MaxUint16))
	return regs
}

const TemperatureScale int = 100

func encodeTemp(v float64) uint16 {
	r := min(max(int(math.Round(v*float64(TemperatureScale))), math.MinInt16), math.MaxInt16)
	return uint16(int16(r))
}

func decodeTemp(u uint16) float64 {
	i := int16(u)
	return float64(i) / float64(TemperatureScale)
}
