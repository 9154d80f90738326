// Command sysexctl is a host-side scripting tool for manually sending
// get/set/special requests to a sysexconf device and printing its
// response bytes.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/faderbank/sysexconf/internal/logging"
	"github.com/faderbank/sysexconf/internal/sysex"
	"github.com/faderbank/sysexconf/internal/transport"
)

func main() {
	logging.ConfigureRuntime()

	serialAddr := flag.String("serial", "", "serial device path, e.g. /dev/ttyUSB0")
	baudRate := flag.Int("baud", 31250, "serial baud rate")
	mfrFlag := flag.String("mfr", "", "comma-separated 3-byte manufacturer id, e.g. 0x00,0x53,0x43")
	wishFlag := flag.String("wish", "get", "get|set|backup")
	amountFlag := flag.String("amount", "single", "single|all")
	block := flag.Int("block", 0, "block index")
	section := flag.Int("section", 0, "section index")
	part := flag.Int("part", 0, "part byte (0x7F requests the full sentinel sweep)")
	index := flag.Int("index", 0, "parameter index (amount=single)")
	valuesFlag := flag.String("values", "", "comma-separated values to write (wish=set)")
	special := flag.String("special", "", "special/custom request id instead of a standard request")
	timeout := flag.Duration("timeout", 3*time.Second, "response read timeout")
	flag.Parse()

	if err := run(cliArgs{
		serialAddr: *serialAddr,
		baudRate:   *baudRate,
		mfr:        *mfrFlag,
		wish:       *wishFlag,
		amount:     *amountFlag,
		block:      *block,
		section:    *section,
		part:       *part,
		index:      *index,
		values:     *valuesFlag,
		special:    *special,
		timeout:    *timeout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "sysexctl: %v\n", err)
		os.Exit(1)
	}
}

type cliArgs struct {
	serialAddr string
	baudRate   int
	mfr        string
	wish       string
	amount     string
	block      int
	section    int
	part       int
	index      int
	values     string
	special    string
	timeout    time.Duration
}

func run(a cliArgs) error {
	if a.serialAddr == "" {
		return fmt.Errorf("-serial is required")
	}
	mfrID, err := parseManufacturerID(a.mfr)
	if err != nil {
		return err
	}

	var request []byte
	if a.special != "" {
		id, err := parseUint(a.special)
		if err != nil {
			return fmt.Errorf("-special: %w", err)
		}
		request = sysex.EncodeSpecialRequest(mfrID, uint16(id))
	} else {
		wish, err := parseWish(a.wish)
		if err != nil {
			return err
		}
		amount, err := parseAmount(a.amount)
		if err != nil {
			return err
		}
		values, err := parseValues(a.values)
		if err != nil {
			return err
		}
		request = sysex.EncodeStandardRequest(mfrID, wish, amount, uint8(a.block), uint8(a.section), byte(a.part), uint16(a.index), values)
	}

	cfg := transport.DefaultConfig(a.serialAddr)
	cfg.BaudRate = a.baudRate
	cfg.Timeout = a.timeout
	port, err := transport.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()

	fmt.Printf("-> %s\n", hex.EncodeToString(request))
	if err := port.Write(request); err != nil {
		return fmt.Errorf("write request: %w", err)
	}

	done := make(chan struct{})
	go func() {
		_ = port.Run(func(message []byte) {
			fmt.Printf("<- %s\n", hex.EncodeToString(message))
			close(done)
		})
	}()

	select {
	case <-done:
	case <-time.After(a.timeout):
		return fmt.Errorf("timed out waiting for a response")
	}
	return nil
}

func parseManufacturerID(raw string) (sysex.ManufacturerID, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return sysex.ManufacturerID{}, fmt.Errorf("-mfr must be exactly 3 comma-separated bytes")
	}
	var id sysex.ManufacturerID
	for i, p := range parts {
		v, err := parseUint(strings.TrimSpace(p))
		if err != nil {
			return sysex.ManufacturerID{}, fmt.Errorf("-mfr[%d]: %w", i, err)
		}
		id[i] = byte(v)
	}
	return id, nil
}

func parseWish(raw string) (sysex.Wish, error) {
	switch raw {
	case "get":
		return sysex.WishGet, nil
	case "set":
		return sysex.WishSet, nil
	case "backup":
		return sysex.WishBackup, nil
	default:
		return 0, fmt.Errorf("-wish must be get, set, or backup")
	}
}

func parseAmount(raw string) (sysex.Amount, error) {
	switch raw {
	case "single":
		return sysex.AmountSingle, nil
	case "all":
		return sysex.AmountAll, nil
	default:
		return 0, fmt.Errorf("-amount must be single or all")
	}
}

func parseValues(raw string) ([]uint16, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]uint16, 0, len(parts))
	for _, p := range parts {
		v, err := parseUint(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("-values: %w", err)
		}
		out = append(out, uint16(v))
	}
	return out, nil
}

func parseUint(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 0, 16)
}
