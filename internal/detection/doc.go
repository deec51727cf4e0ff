// Package detection decides which candidate regions become detections of a
// UI element class.
//
// Two strategies feed the package: pretrained shape detectors (cascades)
// that return rectangles directly, and template correlation that returns a
// similarity surface. Both end in the same acceptance engine, Result.
//
// # Pipeline Overview
//
//  1. Raw candidates: a ShapeDetector returns rectangles, or a Correlator
//     returns a Surface that ExtractCandidates thresholds into rectangles
//     of template size.
//  2. Noise guard: a batch larger than the limit (100 by default) is
//     discarded whole. Hundreds of hits for one button mean the match
//     failed, not that the screen holds hundreds of buttons.
//  3. Acceptance: each candidate is offered to a fresh Result in order.
//     Candidates mostly outside the image are rejected, and so are
//     candidates that overlap an already accepted region. The first
//     candidate wins; there is no scoring.
//  4. Composition: Compose concatenates Results from any number of
//     pipelines into an Overlay of (class, region) pairs.
//
// # Coordinate System
//
// Regions are image.Rectangle values in source image coordinates:
//   - Origin (0, 0) at top-left for decoded files
//   - Min is inclusive, Max is exclusive
//   - A rectangle with zero or negative width or height is empty
//
// # Acceptance Coefficients
//
// Overlap (default 0.2, range (0, 1)) bounds the shared area of two
// accepted regions relative to the smaller one. Containment (default 0.8,
// range (0, 1]) is the fraction of a candidate that must lie inside the
// image. Both thresholds are truncated to whole pixels.
//
// # Errors and Diagnostics
//
// Failures that abort a run are returned as *Error values and compared
// with errors.Is against the Err* sentinels. Everything else, such as a
// rejected candidate or a template that matched nowhere, is reported as an
// Advisory in a Diagnostics list. Result never logs; pipelines log
// advisories through the injected logrus.FieldLogger.
//
// # Concurrency
//
// A Result has a single writer while it is built and is read-only once
// returned. Pipelines run entries sequentially.
package detection
