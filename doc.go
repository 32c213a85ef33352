// Package security provides various security-in-mind built features across
// various domains.
//
// The package is a part of the "Secure SDK" project.
//
// It provides a set of libraries to mitigate common security issues and
// vulnerabilities. The project is designed to be a one-stop-shop for security
// features and libraries for Go developers.
//
// The project is released to the public as a set of open-source libraries to
// cover Datadog open-source projects.
//
// The project is licensed under the Apache License, Version 2.0. The license
// can be found in the LICENSE file in the root of the project.
package security
