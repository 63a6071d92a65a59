// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package jarjar reads the metadata of jars bundled in other jars and locates
// the bundled jars in a [pathfs.FS].
//
// A jar lists its bundled jars in [MetadataPath]. Each entry names the
// artifact, the accepted and the bundled version and the path of the bundled
// jar inside the outer jar. The bundled jar is then addressable as nested
// layer, for example:
//
//	jij:/mods/outer.jar~/META-INF/jarjar/inner.jar~/
package jarjar
