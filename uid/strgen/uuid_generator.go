package strgen

import (
	"encoding/hex"

	"github.com/google/uuid"
)

type UUIDOptions struct {
	Version     string `cfg:"version" def:"v7" validate:"omitempty,oneof=v1 v4 v6 v7"`
	WithHyphens bool   `cfg:"withHyphens"`
}

// UUIDGenerator 基于 google/uuid 生成主键
// v7 按时间递增，适合作为 TEXT 主键
type UUIDGenerator struct {
	version     string
	withHyphens bool
}

func NewUUIDGeneratorWithOptions(options *UUIDOptions) *UUIDGenerator {
	g := &UUIDGenerator{version: "v7", withHyphens: true}
	if options != nil {
		if options.Version != "" {
			g.version = options.Version
		}
		g.withHyphens = options.WithHyphens
	}
	return g
}

func (g *UUIDGenerator) Generate() string {
	var u uuid.UUID
	var err error
	switch g.version {
	case "v1":
		u, err = uuid.NewUUID()
	case "v4":
		u, err = uuid.NewRandom()
	case "v6":
		u, err = uuid.NewV6()
	default:
		u, err = uuid.NewV7()
	}
	if err != nil {
		u = uuid.New()
	}

	if g.withHyphens {
		return u.String()
	}
	return hex.EncodeToString(u[:])
}
