package idea

import (
	"encoding/json"
	"fmt"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
	"gorm.io/datatypes"
)

// Payload holds the fields only one power type carries. The idea's
// idea_type column says which concrete payload the JSON decodes into.
type Payload interface {
	PowerType() entity.PowerType
}

type StandPayload struct {
	StandType string `json:"stand_type,omitempty"`
}

type ZanpakutoPayload struct {
	SpiritName string `json:"spirit_name,omitempty"`
}

type CursedPayload struct {
	TechniqueType string `json:"technique_type,omitempty"`
}

func (StandPayload) PowerType() entity.PowerType     { return entity.PowerStand }
func (ZanpakutoPayload) PowerType() entity.PowerType { return entity.PowerZanpakuto }
func (CursedPayload) PowerType() entity.PowerType    { return entity.PowerCursed }

// EmptyPayload returns the zero payload for t.
func EmptyPayload(t entity.PowerType) (Payload, error) {
	switch t {
	case entity.PowerStand:
		return StandPayload{}, nil
	case entity.PowerZanpakuto:
		return ZanpakutoPayload{}, nil
	case entity.PowerCursed:
		return CursedPayload{}, nil
	}
	return nil, apperror.Validation(apperror.ReasonInvalidValue, fmt.Sprintf("unknown power type %q", t))
}

func EncodePayload(p Payload) (datatypes.JSON, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.PowerType(), err)
	}
	return datatypes.JSON(raw), nil
}

func DecodePayload(t entity.PowerType, raw datatypes.JSON) (Payload, error) {
	switch t {
	case entity.PowerStand:
		return decode[StandPayload](t, raw)
	case entity.PowerZanpakuto:
		return decode[ZanpakutoPayload](t, raw)
	case entity.PowerCursed:
		return decode[CursedPayload](t, raw)
	}
	return nil, fmt.Errorf("decode payload: unknown power type %q", t)
}

func decode[P Payload](t entity.PowerType, raw datatypes.JSON) (Payload, error) {
	var p P
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return p, nil
}
