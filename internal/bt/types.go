package bt

const (
	AdvOptConnectable uint32 = 0x00000001
	AdvOptOneTime     uint32 = 0x00000002

	DataFlags        uint8 = 0x01
	DataNameComplete uint8 = 0x09

	LEADGeneral uint8 = 0x02
	LEADNoBREDR uint8 = 0x04

	// AddrSize is the length of a device address without its type byte.
	AddrSize = 6
)

const (
	cmdEnable   uint8 = 0x00
	cmdAdvStart uint8 = 0x04

	// Sizes of the peer-side C structs that the scratchpad must hold.
	dataStructSize   = 8
	addrLEStructSize = 7

	// enableArg is the value bt_enable sends for both of its integer arguments.
	enableArg = 28
)

// AdvParam mirrors bt_le_adv_param. Intervals are in 0.625 ms units.
type AdvParam struct {
	ID               uint8
	SID              uint8
	SecondaryMaxSkip uint8
	Options          uint32
	IntervalMin      uint32
	IntervalMax      uint32
	Peer             *AddrLE
}

// ConnectableAdvParam returns connectable advertising at 100-150 ms intervals.
func ConnectableAdvParam() AdvParam {
	return AdvParam{
		Options:     AdvOptConnectable,
		IntervalMin: 160,
		IntervalMax: 240,
	}
}

// Data is one advertising or scan response element.
type Data struct {
	Type uint8
	Data []byte
}

func FlagsData(flags ...uint8) Data {
	return Data{Type: DataFlags, Data: flags}
}

func NameCompleteData(name string) Data {
	return Data{Type: DataNameComplete, Data: []byte(name)}
}

// AddrLE is a device address with its type.
type AddrLE struct {
	Type uint8
	Addr [AddrSize]byte
}

// bytes lays the address out as bt_addr_le_t: type byte then address.
func (a *AddrLE) bytes() []byte {
	b := make([]byte, 0, addrLEStructSize)
	b = append(b, a.Type)
	return append(b, a.Addr[:]...)
}
