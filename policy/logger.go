package policy

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "policy")
