//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
)

const (
	oledWidth   = 128
	oledHeight  = 64
	oledAddress = 0x3C
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   GPIO
	panel  drivers.Displayer
	kbd    Keyboard
	t      *tinyGoTime
	flash  Flash
	audio  Audio
	serial *uartSerial
}

// New returns a Raspberry Pi Pico HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// OLED: SSD1306 128x64 on I2C1, GP2 (SDA) / GP3 (SCL).
// Indicators: GP6 red, GP4 yellow, GP5 green.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	indicators := [...]machine.Pin{machine.GP6, machine.GP4, machine.GP5}
	pins := []GPIOPin{newLEDPin("LED", led)}
	for i, name := range IndicatorPins {
		pins = append(pins, &machinePin{name: name, pin: indicators[i]})
	}

	return &tinyGoHAL{
		logger: logger,
		led:    led,
		gpio:   newVirtualGPIO(pins),
		panel:  newOLED(logger),
		kbd:    &stubKeyboard{},
		t:      newTinyGoTime(),
		flash:  newRP2Flash(),
		audio:  newTinyGoAudio(),
		serial: &uartSerial{uart: uart},
	}
}

func newOLED(logger Logger) drivers.Displayer {
	bus := machine.I2C1
	if err := bus.Configure(machine.I2CConfig{
		Frequency: 400_000,
		SDA:       machine.GP2,
		SCL:       machine.GP3,
	}); err != nil {
		logger.WriteLineString("oled: i2c: " + err.Error())
	}
	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Width:   oledWidth,
		Height:  oledHeight,
		Address: oledAddress,
	})
	dev.ClearDisplay()
	return &dev
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{panel: h.panel} }
func (h *tinyGoHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHAL) Flash() Flash     { return h.flash }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) Serial() Serial   { return h.serial }
func (h *tinyGoHAL) Audio() Audio     { return h.audio }
func (h *tinyGoHAL) System() System   { return tinyGoSystem{} }
