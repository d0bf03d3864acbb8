// Package models defines the appointment result event consumed by the results pipeline.
package models
