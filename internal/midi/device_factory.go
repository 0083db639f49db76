package midi

// DeviceType identifies a supported controller variant.
type DeviceType string

const (
	DeviceTypePush DeviceType = "push"
)

// GetDevice returns the Device implementation for the given type.
func GetDevice(deviceType DeviceType) Device {
	switch deviceType {
	case DeviceTypePush:
		return &PushDevice{}
	default:
		return &PushDevice{}
	}
}
