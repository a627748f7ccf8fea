// Package rectify maps a quadrilateral region of a photograph onto an upright
// rectangle.
//
// ComputeHomography solves the 3x3 projective transform that carries four
// source corners onto four target corners. Warp then fills every pixel of the
// target rectangle by mapping it back into the source through the inverse
// transform and sampling bilinearly. Target pixels whose pre-image falls
// outside the source take a fill color.
//
// The default page is A4 at 200 pixels per inch (PageWidth x PageHeight).
// Output images always have exactly the requested size, whatever the corners.
package rectify
