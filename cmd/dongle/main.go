//go:build tinygo

package main

import (
	"context"
	"machine"
	"time"

	"tinygo.org/x/drivers/st7789"

	"github.com/ajanata/dongle"
	"github.com/ajanata/dongle/internal/event"
	"github.com/ajanata/dongle/internal/link"
)

// Pico wiring for a 240x135 ST7789 module and the link from the receiving keyboard half.
var (
	lcdSCK = machine.GP18
	lcdSDO = machine.GP19
	lcdCS  = machine.GP17
	lcdDC  = machine.GP16
	lcdRST = machine.GP20
	lcdBL  = machine.GP21

	linkTX = machine.GP0
	linkRX = machine.GP1
)

func main() {
	blink()
	machine.SPI0.Configure(machine.SPIConfig{
		SCK:       lcdSCK,
		SDO:       lcdSDO,
		Frequency: 62500000,
		Mode:      0,
	})
	blink()

	dev := st7789.New(machine.SPI0, lcdRST, lcdDC, lcdCS, lcdBL)
	dev.Configure(st7789.Config{
		Width:        135,
		Height:       240,
		Rotation:     st7789.ROTATION_90,
		RowOffset:    40,
		ColumnOffset: 53,
	})
	blink()

	machine.UART0.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       linkTX,
		RX:       linkRX,
	})
	blink()

	screen, err := dongle.New(dongle.DefaultConfig(), &dev, machine.LED, nil)
	if err != nil {
		earlyPanic(err)
	}
	err = screen.Init()
	if err != nil {
		earlyPanic(err)
	}

	bus := event.NewDispatcher()
	err = screen.Registry().Subscribe(bus)
	if err != nil {
		earlyPanic(err)
	}
	// the receiver only reports changes, so start from a resting cat
	bus.Publish(event.Event{Kind: event.KindWPMChanged, Payload: event.WPMChanged{}})

	go readLink(machine.UART0, bus)

	err = screen.Run(context.Background())
	earlyPanic(err)
}

func readLink(uart *machine.UART, pub event.Publisher) {
	var dec link.Decoder
	for {
		for uart.Buffered() > 0 {
			b, err := uart.ReadByte()
			if err != nil {
				break
			}
			if e, ok := dec.Feed(b); ok {
				pub.Publish(e)
			}
		}
		time.Sleep(time.Millisecond)
	}
}

func blink() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()
	time.Sleep(100 * time.Millisecond)
	led.Low()
	time.Sleep(100 * time.Millisecond)
}

// unfortunately you can't recover runtime panics in tinygo, so this is just going to be used for things we detect
// that are fatal
func earlyPanic(err error) {
	msg := "stopped"
	if err != nil {
		msg = err.Error()
	}
	for {
		println(msg)
		blink()
	}
}
