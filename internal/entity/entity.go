// Package entity implements the generic entity runtime shared by every
// sensor and actuator process: registering with Discovery, publishing
// samples, serving configuration updates, and sending heartbeats.
package entity

import (
	"time"

	"github.com/ede1998/home-automation/internal/pb"
)

// Kind is implemented by a concrete entity (a sensor or an actuator). The
// runtime drives it through these methods; Kind itself never touches the
// fabric.
type Kind interface {
	// Name is the entity's full registry name, e.g. "sen_kitchen".
	Name() string
	// EntityType is Sensor or Actuator.
	EntityType() pb.EntityType
	// TopicName is the publish topic this entity's samples go out on.
	TopicName() string
	// RetrievePublishData produces the next sample to publish.
	RetrievePublishData() *pb.PublishData
	// HandleIncomingData applies an incoming client action. A non-zero
	// returned duration requests a new publish period; zero means no
	// change.
	HandleIncomingData(data *pb.NamedEntityState) (time.Duration, error)
}
