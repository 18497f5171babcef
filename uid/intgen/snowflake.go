package intgen

import (
	"net"
	"sync/atomic"
	"time"
)

type SnowflakeOptions struct {
	// MachineID 为空时取本机 IPv4 地址的低 10 位
	MachineID *int64 `cfg:"machineID"`
}

// SnowflakeGenerator 41 位毫秒时间戳 + 10 位机器 ID + 12 位序列号
type SnowflakeGenerator struct {
	state     atomic.Int64 // 高位时间戳，低 12 位序列号
	machineID int64
	epoch     int64
}

const (
	sequenceBits  = 12
	machineIDBits = 10

	maxSequence  = (1 << sequenceBits) - 1
	maxMachineID = (1 << machineIDBits) - 1

	machineIDShift = sequenceBits
	timestampShift = sequenceBits + machineIDBits
)

var epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

func NewSnowflakeGeneratorWithOptions(options *SnowflakeOptions) *SnowflakeGenerator {
	var machineID int64
	if options != nil && options.MachineID != nil {
		machineID = *options.MachineID
	} else {
		machineID = machineIDFromIP()
	}

	g := &SnowflakeGenerator{machineID: machineID & maxMachineID, epoch: epoch}
	g.state.Store((time.Now().UnixMilli() - epoch) << sequenceBits)
	return g
}

func machineIDFromIP() int64 {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return 0
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipv4 := ipnet.IP.To4(); ipv4 != nil {
				return int64(ipv4[2])<<8 | int64(ipv4[3])
			}
		}
	}
	return 0
}

func (g *SnowflakeGenerator) Generate() int64 {
	for {
		old := g.state.Load()
		oldTimestamp := old >> sequenceBits
		oldSequence := old & maxSequence

		now := time.Now().UnixMilli() - g.epoch
		timestamp, sequence := now, int64(0)
		if now <= oldTimestamp {
			// 同一毫秒或时钟回拨，沿用上一个时间戳递增序列号
			timestamp = oldTimestamp
			sequence = (oldSequence + 1) & maxSequence
			if sequence == 0 {
				timestamp = oldTimestamp + 1
			}
		}

		if g.state.CompareAndSwap(old, timestamp<<sequenceBits|sequence) {
			return timestamp<<timestampShift | g.machineID<<machineIDShift | sequence
		}
	}
}
