// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

package pathutil

// ComponentsKey is the OAS 3.x key holding reusable components.
const ComponentsKey = "components"

// LegacySections lists the OAS 2.0 top-level keys holding named,
// reusable objects.
var LegacySections = []string{"definitions", "parameters", "responses", "securityDefinitions"}
