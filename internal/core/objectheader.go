package core

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kestrelfile/hdf5/internal/utils"
)

type ObjectType uint8

const (
	ObjectTypeGroup ObjectType = iota
	ObjectTypeDataset
	ObjectTypeDatatype
	ObjectTypeUnknown
)

type ObjectHeader struct {
	Version  uint8
	Flags    uint8
	Type     ObjectType
	Messages []*HeaderMessage
	Name     string
}

type HeaderMessage struct {
	Type   MessageType
	Offset uint64
	Data   []byte
}

type MessageType uint16

// Message type constants, numbered per the HDF5 object-header message table
// (class+version byte's type field; see the external-interfaces wire layout).
const (
	MsgNil                    MessageType = 0x00
	MsgDataspace              MessageType = 0x01
	MsgLinkInfo               MessageType = 0x02
	MsgDatatype               MessageType = 0x03
	MsgFillValueOld           MessageType = 0x04
	MsgFillValue              MessageType = 0x05
	MsgLinkMessage            MessageType = 0x06
	MsgDataLayout             MessageType = 0x08
	MsgGroupInfo              MessageType = 0x0A
	MsgFilterPipeline         MessageType = 0x0B
	MsgAttribute              MessageType = 0x0C
	MsgContinuation           MessageType = 0x10
	MsgSymbolTable            MessageType = 0x11
	MsgObjectModificationTime MessageType = 0x12
	MsgBTreeKValues           MessageType = 0x13
	MsgAttributeInfo          MessageType = 0x15
)

func ReadObjectHeader(r io.ReaderAt, address uint64, sb *Superblock) (*ObjectHeader, error) {
	
	offset := int64(address)
	if offset < 0 {
		return nil, fmt.Errorf("negative offset: %d", offset)
	}

	prefix := utils.GetBuffer(8)
	defer utils.ReleaseBuffer(prefix)

	if _, err := r.ReadAt(prefix, offset); err != nil {
		return nil, utils.WrapError("object header read failed", err)
	}

	header := &ObjectHeader{}

	// A v1 header has no "OHDR" signature: it starts directly with its
	// version byte. A v2 header is always prefixed with "OHDR" (possibly
	// byte-swapped for a big-endian file).
	isBE := false
	isV2 := false
	switch {
	case string(prefix[0:4]) == "OHDR":
		isV2 = true
	case string([]byte{prefix[3], prefix[2], prefix[1], prefix[0]}) == "OHDR":
		isV2 = true
		isBE = true
	case prefix[0] == 1:
		header.Version = 1
	default:
		return nil, fmt.Errorf("invalid object header signature: % x", prefix[0:4])
	}

	if isV2 {
		if isBE {
			header.Version = prefix[7]
			header.Flags = prefix[6]
		} else {
			header.Version = prefix[4]
			header.Flags = prefix[5]
		}
	}

	var err error
	switch header.Version {
	case 1:
		header.Messages, header.Name, err = parseV1Header(r, address, sb)
		if err != nil {
			return nil, utils.WrapError("v1 header parse failed", err)
		}
	case 2:
		header.Messages, header.Name, err = parseV2Header(r, address+8, sb, isBE)
		if err != nil {
			return nil, utils.WrapError("v2 header parse failed", err)
		}
	default:
		return nil, fmt.Errorf("unsupported object header version: %d", header.Version)
	}

	header.Type = determineObjectType(header.Messages)

	return header, nil
}

func determineObjectType(messages []*HeaderMessage) ObjectType {
	for _, msg := range messages {
		switch msg.Type {
		case MsgSymbolTable, MsgLinkInfo, MsgLinkMessage:
			return ObjectTypeGroup
		case MsgDataspace:
			return ObjectTypeDataset
		case MsgDatatype:
			return ObjectTypeDatatype
		}
	}
	return ObjectTypeUnknown
}

// parseV2Header parses the messages of a version-2 object header. The
// returned name is always empty: HDF5 has no object-header message that
// self-describes a name, so the caller fills it in from the parent
// group's link entry.
func parseV2Header(r io.ReaderAt, offset uint64, sb *Superblock, isBE bool) ([]*HeaderMessage, string, error) {
	var messages []*HeaderMessage

	sizeBuf := utils.GetBuffer(4)
	defer utils.ReleaseBuffer(sizeBuf)

	if _, err := r.ReadAt(sizeBuf, int64(offset)); err != nil {
		return nil, "", utils.WrapError("header size read failed", err)
	}

	var headerSize uint32
	if isBE {
		headerSize = binary.BigEndian.Uint32(sizeBuf)
	} else {
		headerSize = binary.LittleEndian.Uint32(sizeBuf)
	}

	current := offset + 4
	end := offset + uint64(headerSize)

	for current < end {
		typeSizeBuf := utils.GetBuffer(4)
		if _, err := r.ReadAt(typeSizeBuf, int64(current)); err != nil {
			utils.ReleaseBuffer(typeSizeBuf)
			return nil, "", utils.WrapError("message header read failed", err)
		}

		var msgType MessageType
		var msgSize uint16
		if isBE {
			msgType = MessageType(binary.BigEndian.Uint16(typeSizeBuf[0:2]))
			msgSize = binary.BigEndian.Uint16(typeSizeBuf[2:4])
		} else {
			msgType = MessageType(binary.LittleEndian.Uint16(typeSizeBuf[0:2]))
			msgSize = binary.LittleEndian.Uint16(typeSizeBuf[2:4])
		}
		utils.ReleaseBuffer(typeSizeBuf)

		if msgSize == 0 {
			current += 4
			continue
		}

		data := utils.GetBuffer(int(msgSize))
		if _, err := r.ReadAt(data, int64(current+4)); err != nil {
			utils.ReleaseBuffer(data)
			return nil, "", utils.WrapError("message data read failed", err)
		}

		messages = append(messages, &HeaderMessage{
			Type:   msgType,
			Offset: current,
			Data:   data,
		})

		current += 4 + uint64(msgSize)
	}

	return messages, "", nil
}
