package pb

import (
	"fmt"
	"strings"
)

const (
	measurementTopicPrefix   = "/measurement/"
	actuatorStateTopicPrefix = "/actuator_state/"
)

// SensorTopic builds the publish topic for a sensor's measurements.
func SensorTopic(entityName string) string {
	return measurementTopicPrefix + entityName
}

// ActuatorTopic builds the publish topic for an actuator's state.
func ActuatorTopic(entityName string) string {
	return actuatorStateTopicPrefix + entityName
}

// ParseSensorTopic recovers the entity name from a sensor topic, failing if
// topic is not a well-formed measurement topic.
func ParseSensorTopic(topic string) (string, error) {
	name, ok := strings.CutPrefix(topic, measurementTopicPrefix)
	if !ok || name == "" {
		return "", fmt.Errorf("pb: malformed sensor topic %q", topic)
	}
	return name, nil
}

// ParseActuatorTopic recovers the entity name from an actuator topic,
// failing if topic is not a well-formed actuator_state topic.
func ParseActuatorTopic(topic string) (string, error) {
	name, ok := strings.CutPrefix(topic, actuatorStateTopicPrefix)
	if !ok || name == "" {
		return "", fmt.Errorf("pb: malformed actuator topic %q", topic)
	}
	return name, nil
}

// Topic builds the publish topic for an entity of the given type.
func Topic(entityType EntityType, entityName string) string {
	if entityType == EntityTypeActuator {
		return ActuatorTopic(entityName)
	}
	return SensorTopic(entityName)
}
