// Package aura decodes the parameters of the AuthorityRound proof-of-authority
// engine from a chain specification document.
//
// This package provides:
//   - AuthorityRound, the {"params": ...} wrapper callers deserialize
//   - AuthorityRoundParams, the typed engine parameters
//   - ValidatorSet and BlockReward, the two polymorphic sub-schemas
//   - Parse, the single strict entry point
//
// Decoding is strict: field names are matched exactly (camelCase, no case
// folding), every object rejects keys it does not know, and optional fields stay
// nil when absent so that "absent" and "explicit zero" never collapse. A decoded
// value is not modified afterwards and may be shared between goroutines.

package aura

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/rony4d/go-opera-aura/utils/hexjson"
	"github.com/rony4d/go-opera-aura/utils/strictjson"
)

// Wire names of the AuthorityRoundParams fields.
const (
	fieldStepDuration                  = "stepDuration"
	fieldValidators                    = "validators"
	fieldStartStep                     = "startStep"
	fieldValidateScoreTransition       = "validateScoreTransition"
	fieldValidateStepTransition        = "validateStepTransition"
	fieldImmediateTransitions          = "immediateTransitions"
	fieldBlockReward                   = "blockReward"
	fieldBlockRewardContractTransition = "blockRewardContractTransition"
	fieldBlockRewardContractAddress    = "blockRewardContractAddress"
	fieldBlockRewardContractCode       = "blockRewardContractCode"
	fieldMaximumUncleCountTransition   = "maximumUncleCountTransition"
	fieldMaximumUncleCount             = "maximumUncleCount"
	fieldEmptyStepsTransition          = "emptyStepsTransition"
	fieldMaximumEmptySteps             = "maximumEmptySteps"
	fieldStrictEmptyStepsTransition    = "strictEmptyStepsTransition"

	fieldParams = "params"

	typeAuthorityRound       = "AuthorityRound"
	typeAuthorityRoundParams = "AuthorityRoundParams"
)

// AuthorityRoundParams holds the engine parameters. Pointer and interface
// fields are nil when the key is absent from the document.
type AuthorityRoundParams struct {
	// StepDuration is the length of an authority step, in seconds.
	StepDuration hexjson.Uint
	// Validators determines the block authors.
	Validators ValidatorSet

	// StartStep overrides the initial step counter. Testing only.
	StartStep *hexjson.Uint
	// ValidateScoreTransition is the block at which score validation starts.
	ValidateScoreTransition *hexjson.Uint
	// ValidateStepTransition is the block from which steps must be monotonic.
	ValidateStepTransition *hexjson.Uint
	// ImmediateTransitions makes validator set changes take effect immediately.
	ImmediateTransitions *bool
	// BlockReward is the static reward per block.
	BlockReward BlockReward
	// BlockRewardContractTransition is the block at which the reward contract
	// replaces the static reward.
	BlockRewardContractTransition *hexjson.Uint
	// BlockRewardContractAddress is called to compute rewards when
	// BlockRewardContractCode is not set.
	BlockRewardContractAddress *common.Address
	// BlockRewardContractCode supplies the reward contract bytecode directly and
	// overrides BlockRewardContractAddress.
	BlockRewardContractCode *hexutil.Bytes
	// MaximumUncleCountTransition is the block at which MaximumUncleCount applies.
	MaximumUncleCountTransition *hexjson.Uint
	// MaximumUncleCount is the maximum number of accepted uncles.
	MaximumUncleCount *hexjson.Uint
	// EmptyStepsTransition is the block at which empty step messages start.
	EmptyStepsTransition *hexjson.Uint
	// MaximumEmptySteps is the maximum number of accepted empty steps.
	MaximumEmptySteps *hexjson.Uint
	// StrictEmptyStepsTransition is the block at which empty steps are validated strictly.
	StrictEmptyStepsTransition *hexjson.Uint
}

// AuthorityRound is the engine section of a chain specification.
type AuthorityRound struct {
	Params AuthorityRoundParams
}

// Parse decodes an AuthorityRound document. Any error is a *DecodeError and no
// partial result is returned.
func Parse(doc []byte) (*AuthorityRound, error) {
	obj, err := strictjson.Parse(doc, typeAuthorityRound)
	if err != nil {
		return nil, at("", err)
	}
	raw, ok := obj.Take(fieldParams)
	if !ok {
		return nil, at("", missingField(typeAuthorityRound, fieldParams))
	}
	params, err := decodeParams(raw)
	if err != nil {
		return nil, at(fieldParams, err)
	}
	if err := obj.Finish(); err != nil {
		return nil, at("", err)
	}
	return &AuthorityRound{Params: *params}, nil
}

// ParseString is Parse for documents held in a string.
func ParseString(doc string) (*AuthorityRound, error) {
	return Parse([]byte(doc))
}

// UnmarshalJSON lets AuthorityRound sit inside a larger document decoded with
// encoding/json while keeping the strict rules of Parse.
func (a *AuthorityRound) UnmarshalJSON(input []byte) error {
	res, err := Parse(input)
	if err != nil {
		return err
	}
	*a = *res
	return nil
}

// UnmarshalJSON implements json.Unmarshaler with the rules of Parse.
func (p *AuthorityRoundParams) UnmarshalJSON(input []byte) error {
	res, err := decodeParams(input)
	if err != nil {
		return at("", err)
	}
	*p = *res
	return nil
}

func decodeParams(raw json.RawMessage) (*AuthorityRoundParams, error) {
	obj, err := strictjson.Parse(raw, typeAuthorityRoundParams)
	if err != nil {
		return nil, err
	}
	p := new(AuthorityRoundParams)

	// Required fields.
	value, ok := obj.Take(fieldStepDuration)
	if !ok {
		return nil, missingField(typeAuthorityRoundParams, fieldStepDuration)
	}
	if p.StepDuration, err = hexjson.DecodeUint(value); err != nil {
		return nil, at(fieldStepDuration, err)
	}
	if value, ok = obj.Take(fieldValidators); !ok {
		return nil, missingField(typeAuthorityRoundParams, fieldValidators)
	}
	if p.Validators, err = decodeValidatorSet(value); err != nil {
		return nil, at(fieldValidators, err)
	}

	// Optional numeric fields.
	for _, f := range []struct {
		name string
		dst  **hexjson.Uint
	}{
		{fieldStartStep, &p.StartStep},
		{fieldValidateScoreTransition, &p.ValidateScoreTransition},
		{fieldValidateStepTransition, &p.ValidateStepTransition},
		{fieldBlockRewardContractTransition, &p.BlockRewardContractTransition},
		{fieldMaximumUncleCountTransition, &p.MaximumUncleCountTransition},
		{fieldMaximumUncleCount, &p.MaximumUncleCount},
		{fieldEmptyStepsTransition, &p.EmptyStepsTransition},
		{fieldMaximumEmptySteps, &p.MaximumEmptySteps},
		{fieldStrictEmptyStepsTransition, &p.StrictEmptyStepsTransition},
	} {
		value, ok := obj.TakeOptional(f.name)
		if !ok {
			continue
		}
		v, err := hexjson.DecodeUint(value)
		if err != nil {
			return nil, at(f.name, err)
		}
		*f.dst = &v
	}

	if value, ok := obj.TakeOptional(fieldImmediateTransitions); ok {
		v, err := hexjson.DecodeBool(value)
		if err != nil {
			return nil, at(fieldImmediateTransitions, err)
		}
		p.ImmediateTransitions = &v
	}
	if value, ok := obj.TakeOptional(fieldBlockReward); ok {
		if p.BlockReward, err = decodeBlockReward(value); err != nil {
			return nil, at(fieldBlockReward, err)
		}
	}
	if value, ok := obj.TakeOptional(fieldBlockRewardContractAddress); ok {
		addr, err := hexjson.DecodeAddress(value)
		if err != nil {
			return nil, at(fieldBlockRewardContractAddress, err)
		}
		p.BlockRewardContractAddress = &addr
	}
	if value, ok := obj.TakeOptional(fieldBlockRewardContractCode); ok {
		code, err := hexjson.DecodeBytes(value)
		if err != nil {
			return nil, at(fieldBlockRewardContractCode, err)
		}
		p.BlockRewardContractCode = &code
	}

	if err := obj.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}
