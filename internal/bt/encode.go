package bt

import (
	"github.com/danmuck/nrfrpc/internal/protocol/packet"
	"github.com/danmuck/nrfrpc/internal/protocol/scratchpad"
	"github.com/danmuck/nrfrpc/internal/protocol/value"
)

// EncodeEnable builds the bt_enable command packet.
func EncodeEnable(srcCtx, srcGroup, dstGroup uint8) ([]byte, error) {
	buf := packet.NewBuffer(packet.CommandBufferSize)
	if err := packet.EncodeCommand(buf, srcCtx, cmdEnable, packet.UnknownContext, srcGroup, dstGroup); err != nil {
		return nil, err
	}
	enc := value.NewEncoder(buf)
	enc.Uint(enableArg)
	enc.Uint(enableArg)
	enc.Null()
	if err := enc.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeAdvStart builds the bt_le_adv_start command packet. Arguments follow the
// scratchpad size: the fixed param fields, the peer as one 7-byte bt_addr_le_t
// buffer (null when absent), then the
// counted ad and sd element lists.
func EncodeAdvStart(srcCtx, srcGroup, dstGroup uint8, param AdvParam, ad, sd []Data) ([]byte, error) {
	buf := packet.NewBuffer(packet.CommandBufferSize)
	if err := packet.EncodeCommand(buf, srcCtx, cmdAdvStart, packet.UnknownContext, srcGroup, dstGroup); err != nil {
		return nil, err
	}
	enc := value.NewEncoder(buf)
	enc.Uint(uint64(AdvStartScratchpad(param, ad, sd)))
	enc.Uint(uint64(param.ID))
	enc.Uint(uint64(param.SID))
	enc.Uint(uint64(param.SecondaryMaxSkip))
	enc.Uint(uint64(param.Options))
	enc.Uint(uint64(param.IntervalMin))
	enc.Uint(uint64(param.IntervalMax))
	if param.Peer == nil {
		enc.Null()
	} else {
		enc.Bytes(param.Peer.bytes())
	}
	encodeData(enc, ad)
	encodeData(enc, sd)
	enc.Null()
	if err := enc.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeData(enc *value.Encoder, items []Data) {
	enc.Uint(uint64(len(items)))
	for _, d := range items {
		enc.Uint(uint64(d.Type))
		enc.Uint(uint64(len(d.Data)))
		enc.Bytes(d.Data)
	}
}

// AdvStartScratchpad returns the peer-side scratchpad bytes bt_le_adv_start needs
// to decode param, ad and sd.
func AdvStartScratchpad(param AdvParam, ad, sd []Data) int {
	var s scratchpad.Sizer
	for _, d := range ad {
		s.AddItem(dataStructSize, len(d.Data))
	}
	for _, d := range sd {
		s.AddItem(dataStructSize, len(d.Data))
	}
	if param.Peer != nil {
		s.AddStruct(addrLEStructSize)
	}
	return s.Size()
}
