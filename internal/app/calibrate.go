package app

import (
	"context"
	"errors"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/polycalc/internal/calibration"
	"github.com/agbru/polycalc/internal/cli"
	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/logging"
)

// runCalibrate measures the thresholds for the configured modulus, prints
// the tables to out and saves a profile when -calibration-profile is set.
func (a *Application) runCalibrate(ctx context.Context, out io.Writer, logger *logging.ZerologAdapter) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger.Info("calibration started", logging.Uint64("modulus", a.Config.Modulus))
	res, err := calibration.Run(ctx, a.Config.Modulus, calibration.Options{})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.TimeoutError{Operation: "calibrate", Limit: a.Config.Timeout}
		}
		return cli.DisplayError(a.ErrWriter, err)
	}
	calibration.PrintResult(out, res)

	if path := a.Config.CalibrationProfile; path != "" {
		if err := res.Profile().SaveProfile(path); err != nil {
			return cli.DisplayError(a.ErrWriter, err)
		}
		logger.Info("calibration profile saved", logging.String("path", path))
	}
	return apperrors.ExitSuccess
}

// applyCalibrationProfile loads the thresholds saved by a previous
// -calibrate run. Missing or stale profiles leave the defaults in place.
func (a *Application) applyCalibrationProfile(logger *logging.ZerologAdapter) {
	path := a.Config.CalibrationProfile
	if path == "" {
		return
	}
	profile, err := calibration.LoadProfile(path)
	if err != nil {
		logger.Debug("calibration profile not loaded", logging.String("path", path), logging.Err(err))
		return
	}
	if !profile.IsValid(a.Config.Modulus) {
		logger.Debug("calibration profile does not match this machine or modulus", logging.String("path", path))
		return
	}
	a.Config = a.Config.WithCalibratedThresholds(profile.SchoolbookThreshold, profile.HornerThreshold)
	logger.Debug("calibration profile applied",
		logging.Int("schoolbook_threshold", a.Config.SchoolbookThreshold),
		logging.Int("horner_threshold", a.Config.HornerThreshold))
}
