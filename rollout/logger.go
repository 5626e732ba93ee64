package rollout

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "rollout")
