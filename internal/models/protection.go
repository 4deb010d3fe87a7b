package models

// ProtectionLimits is the persisted per-channel current ceiling in milliamps.
// Zero disables protection for the channel.
type ProtectionLimits struct {
	Channel1 uint16 `json:"channel1"`
	Channel2 uint16 `json:"channel2"`
	Channel3 uint16 `json:"channel3"`
}

// LimitsFromArray builds the persisted form from a per-channel array.
func LimitsFromArray(a [ChannelCount]uint16) ProtectionLimits {
	return ProtectionLimits{Channel1: a[0], Channel2: a[1], Channel3: a[2]}
}

// Array returns the limits indexed by channel.
func (l ProtectionLimits) Array() [ChannelCount]uint16 {
	return [ChannelCount]uint16{l.Channel1, l.Channel2, l.Channel3}
}

// ChannelProtection is the live protection state of one channel.
type ChannelProtection struct {
	Channel   int     `json:"channel"`
	Current   float64 `json:"current"` // mA, last reading
	Limit     uint16  `json:"limit"`   // mA, 0 = disabled
	Triggered bool    `json:"triggered"`
}
