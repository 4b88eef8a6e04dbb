package rocketleague

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// Platform is one of the storefronts the API partitions its data by.
type Platform int

const (
	Steam Platform = iota
	Xbox
	Playstation
)

// Platforms returns every supported platform.
func Platforms() []Platform {
	return []Platform{Steam, Xbox, Playstation}
}

// Code returns the identifier the API expects in URL paths for the platform.
func (p Platform) Code() string {
	switch p {
	case Steam:
		return "steam"
	case Xbox:
		return "xboxone"
	case Playstation:
		return "ps4"
	}
	return ""
}

func (p Platform) String() string {
	switch p {
	case Steam:
		return "Steam"
	case Xbox:
		return "Xbox"
	case Playstation:
		return "Playstation"
	}
	return fmt.Sprintf("Platform(%d)", int(p))
}

// ParsePlatform accepts either a wire code or a platform name, case insensitively.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "steam":
		return Steam, nil
	case "xbox", "xboxone":
		return Xbox, nil
	case "playstation", "ps4":
		return Playstation, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}
