package telemetry

import (
	"errors"
	"io"
	"log"
	"sync"

	"go.bug.st/serial"
)

//DefBaudRate is the rate the cube controller talks at
const DefBaudRate = 115200

//Opener opens the telemetry device
type Opener func(device string, baud int) (io.ReadCloser, error)

//OpenSerial opens a serial device as 8N1 at the given baud rate
func OpenSerial(device string, baud int) (io.ReadCloser, error) {
	if baud <= 0 {
		baud = DefBaudRate
	}
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	return port, nil
}

//Ports lists the serial devices present on the machine
func Ports() ([]string, error) {
	return serial.GetPortsList()
}

//Listen feeds everything read from r to the board until r ends
//the end of the stream is not an error
func Listen(r io.Reader, dec *Decoder, b Board) error {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, f := range dec.Feed(string(buf[:n])) {
				if !b.Set(f.Key, f.Value) {
					log.Printf("no element found for key: %s", f.Key)
				}
			}
		}
		if errors.Is(err, io.EOF) {
			log.Println("stream closed")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

/*
	Link is the connection to the telemetry device
	Connect opens the device and starts reading in a goroutine, Disconnect closes it.
	Both report success as a bool and log the reason of a failure.
*/
type Link struct {
	Device string
	Baud   int
	Board  Board

	//OnClose is called when the read loop ends for any reason
	OnClose func()

	open    Opener
	mu      sync.Mutex
	port    io.ReadCloser
	closing bool
	done    chan struct{}
}

//NewLink creates a link to a serial device
func NewLink(device string, baud int, b Board) *Link {
	return NewLinkWithOpener(device, baud, b, OpenSerial)
}

//NewLinkWithOpener creates a link using a custom opener
func NewLinkWithOpener(device string, baud int, b Board, open Opener) *Link {
	if baud <= 0 {
		baud = DefBaudRate
	}
	return &Link{Device: device, Baud: baud, Board: b, open: open}
}

//Connected reports whether the read loop is running
func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.port != nil
}

//Connect opens the device and starts reading
func (l *Link) Connect() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port != nil {
		return true
	}
	if l.Device == "" {
		log.Println("no telemetry device configured")
		return false
	}
	port, err := l.open(l.Device, l.Baud)
	if err != nil {
		log.Printf("error opening the serial port %s: %v", l.Device, err)
		return false
	}
	log.Printf("port %s opened at %d baud", l.Device, l.Baud)
	l.port = port
	l.closing = false
	l.done = make(chan struct{})
	go l.read(port, l.done)
	return true
}

//Disconnect closes the device, the read loop ends on its own
func (l *Link) Disconnect() bool {
	l.mu.Lock()
	port := l.port
	l.closing = port != nil
	l.mu.Unlock()
	if port == nil {
		return false
	}
	if err := port.Close(); err != nil {
		log.Printf("error closing the serial port %s: %v", l.Device, err)
		return false
	}
	log.Println("port closed")
	return true
}

//Toggle connects a closed link and disconnects an open one
func (l *Link) Toggle() bool {
	if l.Connected() {
		ok := l.Disconnect()
		if !ok {
			log.Println("failed to disconnect")
		}
		return ok
	}
	ok := l.Connect()
	if !ok {
		log.Println("failed to connect")
	}
	return ok
}

//Wait blocks until the current read loop ends
func (l *Link) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (l *Link) read(port io.ReadCloser, done chan struct{}) {
	defer close(done)
	err := Listen(port, &Decoder{}, l.Board)
	l.mu.Lock()
	closing := l.closing
	if l.port == port {
		l.port = nil
	}
	l.mu.Unlock()
	if err != nil && !closing {
		log.Printf("error reading from serial port %s: %v", l.Device, err)
	}
	if !closing {
		_ = port.Close()
	}
	if l.OnClose != nil {
		l.OnClose()
	}
}
