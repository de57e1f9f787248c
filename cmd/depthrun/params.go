package main

import (
	"strconv"
	"strings"

	"github.com/raykavin/depthrun/pkg/core"
)

// parseParams parses "name=min:max:step" ranges and "name=value" fixed values
func parseParams(values []string) (core.Params, error) {
	params := make(core.Params, 0, len(values))
	for _, value := range values {
		param, err := parseParam(value)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return params, nil
}

func parseParam(value string) (core.Parameter, error) {
	name, bounds, ok := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return core.Parameter{}, core.ConfigurationError("invalid parameter %q, expected name=min:max:step", value)
	}

	fields := strings.Split(bounds, ":")
	numbers := make([]float64, len(fields))
	for i, field := range fields {
		number, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return core.Parameter{}, core.ConfigurationError("invalid parameter %q: %w", value, err)
		}
		numbers[i] = number
	}

	var param core.Parameter
	switch len(numbers) {
	case 1:
		param = core.NewParameter(name, numbers[0], numbers[0], 1)
	case 2:
		param = core.NewParameter(name, numbers[0], numbers[1], 1)
	case 3:
		param = core.NewParameter(name, numbers[0], numbers[1], numbers[2])
	default:
		return core.Parameter{}, core.ConfigurationError("invalid parameter %q, expected name=min:max:step", value)
	}

	return param, param.Validate()
}
