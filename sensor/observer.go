package sensor

import (
	"github.com/eTextile/matrix-go/blobs"
	"github.com/golang/glog"
)

// LogObserver forwards pool and list events to glog at verbosity Level
type LogObserver struct {
	Level glog.Level
}

func (observer LogObserver) Observe(e blobs.Event) {
	if e.Kind == blobs.EventDropped || e.Kind == blobs.EventRemoveMissed {
		glog.Warningf("blobs: %s", e)
		return
	}
	glog.V(observer.Level).Infof("blobs: %s", e)
}
