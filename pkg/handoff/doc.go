// Package handoff transfers control from the gate to the ESPHome updater.
//
// On unix platforms the gate's process image is replaced with the updater's, so
// nothing of the gate stays resident. Elsewhere the updater is spawned, waited
// for, and its exit code becomes the gate's.
package handoff
