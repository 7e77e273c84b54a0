package atecc

import (
	"context"
	"errors"

	"github.com/northvolt/go-atecc-provision/atecc/ateccconf"
)

// Definitions for Zone and Address Parameters
const (
	// atcaZoneReadWrite32 is the zone bit 7 set: access 32 bytes, otherwise 4 bytes.
	atcaZoneReadWrite32 = 0x80
)

func (d *Dev) lockConfigZone(ctx context.Context) error {
	return d.lock(ctx, lockZoneConfig, lockModeNoCRC, 0)
}

func (d *Dev) lockDataZone(ctx context.Context) error {
	return d.lock(ctx, lockZoneData, lockModeNoCRC, 0)
}

func (d *Dev) lock(ctx context.Context, zone lockZone, mode lockMode, crc uint16) error {
	command, err := newLockCommand(zone, mode, crc)
	if err != nil {
		return err
	}

	return d.execute(ctx, command)
}

// getAddr computes the address given the zone, slot, block, and offset.
func getAddr(zone Zone, slot uint16, block uint8, offset uint8) (uint16, error) {
	var addr uint16

	// Mask the offset
	offset = offset & 0x07

	switch zone {
	case ZoneConfig, ZoneOTP:
		addr = uint16(block) << 3
		addr = addr | uint16(offset)
		return addr, nil
	case ZoneData:
		addr = slot << 3
		addr = addr | uint16(offset)
		addr = addr | (uint16(block) << 8)
		return addr, nil
	default:
		return 0, errors.New("atecc: invalid zone received")
	}
}

func (d *Dev) readZone(ctx context.Context, zone Zone, slot uint16, block uint8, offset uint8, data []byte) (int, error) {
	if len(data) != atcaBlockSize && len(data) != atcaWordSize {
		return 0, errors.New("atecc: invalid read zone size")
	}

	addr, err := getAddr(zone, slot, block, offset)
	if err != nil {
		return 0, err
	}

	blockMode := len(data) == atcaBlockSize
	cmd, err := newReadCommand(zone, addr, blockMode)
	if err != nil {
		return 0, err
	}

	return d.executeResponse(ctx, cmd, data)
}

// readBytesZone reads an arbitrary byte range out of a zone.
//
// Reads are issued block-wise where possible, falling back to word reads
// towards the end of the zone.
func (d *Dev) readBytesZone(ctx context.Context, zone Zone, slot uint16, offset int, data []byte) (int, error) {
	var buf [atcaBlockSize]byte
	var dataIdx = 0
	var curOffset = 0

	// Always succeed reading 0 bytes
	if len(data) == 0 {
		return 0, nil
	}

	zoneSize, err := getZoneSize(zone, 0)
	if err != nil {
		return 0, err
	}

	// make sure we don't read past end of zone
	if offset+len(data) > zoneSize {
		return 0, errors.New("atecc: invalid parameter received")
	}

	readBuf := buf[:atcaBlockSize]
	curBlock := offset / atcaBlockSize
	for dataIdx < len(data) {
		// Read word size when we have less than a block left to read
		if len(readBuf) == atcaBlockSize && zoneSize-curBlock*atcaBlockSize < atcaBlockSize {
			readBuf = buf[:atcaWordSize]
			curOffset = ((dataIdx + offset) / atcaWordSize) % (atcaBlockSize / atcaWordSize)
		}

		n, err := d.readZone(ctx, zone, slot, uint8(curBlock), uint8(curOffset), readBuf)
		if err != nil {
			return dataIdx, err
		}

		readBufIdx := 0
		readOffset := curBlock*atcaBlockSize + curOffset*atcaWordSize
		// Check if read data starts before the requested chunk
		if readOffset < offset {
			readBufIdx = offset - readOffset
		}

		// Calculate how much data from the read buffer we want to copy
		copyLength := n - readBufIdx
		if len(data)-dataIdx < copyLength {
			copyLength = len(data) - dataIdx
		}

		copy(data[dataIdx:], readBuf[readBufIdx:readBufIdx+copyLength])
		dataIdx += copyLength
		if n == atcaBlockSize {
			curBlock += 1
		} else {
			curOffset += 1
		}
	}
	return dataIdx, nil
}

func (d *Dev) readConfigZone(ctx context.Context, data []byte) (int, error) {
	return d.readBytesZone(ctx, ZoneConfig, 0, 0x00, data)
}

func (d *Dev) write(ctx context.Context, zone Zone, addr uint16, data []byte, mac []byte) error {
	command, err := newWriteCommand(zone, addr, data, mac)
	if err != nil {
		return err
	}

	return d.execute(ctx, command)
}

func (d *Dev) writeZone(ctx context.Context, zone Zone, slot uint16, block uint8, offset uint8, data []byte) error {
	if len(data) != atcaBlockSize && len(data) != atcaWordSize {
		return errors.New("atecc: invalid write zone size")
	}

	// The get address function checks the remaining variables
	addr, err := getAddr(zone, slot, block, offset)
	if err != nil {
		return err
	}

	return d.write(ctx, zone, addr, data, nil)
}

func (d *Dev) writeBytesZone(ctx context.Context, zone Zone, slot uint16, offset uint8, data []byte) (int, error) {
	if zone == ZoneData && slot > 15 {
		return 0, errors.New("atecc: invalid slot")
	}

	// Always succeed writing 0 bytes
	if len(data) == 0 {
		return 0, nil
	}

	if offset%atcaWordSize != 0 {
		return 0, errors.New("atecc: invalid offset")
	}
	if len(data)%atcaWordSize != 0 {
		return 0, errors.New("atecc: invalid length")
	}

	zoneSize, err := getZoneSize(zone, slot)
	if err != nil {
		return 0, err
	}
	if int(offset)+len(data) > zoneSize {
		return 0, errors.New("atecc: invalid offset and zone")
	}

	block := offset / atcaBlockSize
	word := (offset % atcaBlockSize) / atcaWordSize

	var index = 0
	for index < len(data) {
		// Makes sure we skip writing to the selector, user extra, and lock bytes.
		// These need to be written using the UpdateExtra command.
		inLockBlock := zone == ZoneConfig && block == ateccconf.LockOffsetBlock
		inLockWord := inLockBlock && word == ateccconf.LockOffsetWord

		// Write block-wise when we're aligned and there's a full block available.
		remaining := len(data) - index
		writeBlock := word == 0 && remaining >= atcaBlockSize

		if writeBlock && !inLockBlock {
			err = d.writeZone(ctx, zone, slot, block, 0, data[index:index+atcaBlockSize])
			if err != nil {
				return index, err
			}
			index += atcaBlockSize
			block += 1
		} else {
			if !inLockWord {
				err = d.writeZone(ctx, zone, slot, block, word, data[index:index+atcaWordSize])
				if err != nil {
					return index, err
				}
			}
			index += atcaWordSize
			word += 1
			if word == atcaBlockSize/atcaWordSize {
				block += 1
				word = 0
			}
		}
	}
	return index, nil
}

func (d *Dev) writeConfigZone(ctx context.Context, data []byte) (int, error) {
	// Be very strict about the size. We don't want anyone to accidentally miss
	// that this function actually skips the first 16 bytes, which is unexpected.
	if zoneSizeConfig != len(data) {
		return 0, errors.New("atecc: config data size mismatch")
	}

	// Write config zone excluding UserExtra and Selector
	const offset = ateccconf.PermanentOffset608
	n, err := d.writeBytesZone(ctx, ZoneConfig, 0, offset, data[offset:])
	if err != nil {
		return n, err
	}

	// Write the UserExtra and UserExtraAdd. This may fail if either value is
	// already non-zero.
	if err := d.updateExtra(ctx, updateModeUserExtra, data[84]); err != nil {
		return n, err
	}
	return n, d.updateExtra(ctx, updateModeUserExtraAdd, data[85])
}

// updateExtra updates the two extra bytes within the configuration zone.
//
// This function executes the UpdateExtra command to update the values of the
// extra bytes within the configuration zone (bytes 84 and 85).
func (d *Dev) updateExtra(ctx context.Context, mode updateMode, newValue byte) error {
	command, err := newUpdateExtraCommand(mode, newValue)
	if err != nil {
		return err
	}

	return d.execute(ctx, command)
}

// serialNumber reads the config and extracts the 9 bytes serial number.
func (d *Dev) serialNumber(ctx context.Context) ([]byte, error) {
	var buf [atcaBlockSize]byte
	_, err := d.readZone(ctx, ZoneConfig, 0, 0, 0, buf[:])
	if err != nil {
		return nil, err
	}

	var conf ateccconf.Config608
	err = ateccconf.UnmarshalPartial(buf[:], 0, &conf)
	if err != nil {
		return nil, err
	}

	var serialNumber [9]byte
	copy(serialNumber[:], conf.SN03[:])
	copy(serialNumber[4:], conf.SN48[:])
	return serialNumber[:], nil
}

// readLockBytes reads the config word holding the lock bytes.
//
// The word contains UserExtra, Selector, LockValue and LockConfig.
func (d *Dev) readLockBytes(ctx context.Context) (*ateccconf.Config608, error) {
	var buf [atcaWordSize]byte

	const block = ateccconf.LockOffsetBlock
	const offset = ateccconf.LockOffsetWord
	if _, err := d.readZone(ctx, ZoneConfig, 0, block, offset, buf[:]); err != nil {
		return nil, err
	}

	var conf ateccconf.Config608
	err := ateccconf.UnmarshalPartial(buf[:], ateccconf.LockOffset, &conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

// readSlotLockBytes reads the config word holding the slot lock bitmap.
func (d *Dev) readSlotLockBytes(ctx context.Context) (*ateccconf.Config608, error) {
	var buf [atcaWordSize]byte

	const block = ateccconf.SlotLockedOffset / atcaBlockSize
	const offset = ateccconf.SlotLockedOffset % atcaBlockSize / atcaWordSize
	if _, err := d.readZone(ctx, ZoneConfig, 0, block, offset, buf[:]); err != nil {
		return nil, err
	}

	var conf ateccconf.Config608
	err := ateccconf.UnmarshalPartial(buf[:], ateccconf.SlotLockedOffset, &conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}
