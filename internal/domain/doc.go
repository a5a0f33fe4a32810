// Package domain models USGS earthquake feed data and its map encoding.
//
// # Data Source
//
// Events come from the USGS Earthquake Hazards Program GeoJSON summary feeds,
// e.g. https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/1.0_week.geojson
// (all M1.0+ events of the past 7 days). The feed is a FeatureCollection with a
// "metadata" member and one Point feature per event.
//
// # Feed Conventions
//
// Feature properties used here:
//
//	mag    number or null. Null for events not yet assigned a magnitude.
//	       Small or induced events can be negative (e.g. -0.4).
//	place  string or null. Human readable, e.g. "10km N of Ridgecrest, CA".
//	time   number, epoch milliseconds UTC.
//	url    string, event page on earthquake.usgs.gov.
//
// Geometry is a Point with [longitude, latitude, depth_km]. Depth is not
// used for display.
//
// # Magnitude Encoding
//
// Colors follow the UPSeis effect scale (http://www.geo.mtu.edu/UPSeis/magnitude.html):
//
//	  < 2.5   #fa9fb5  usually not felt, recorded by seismographs
//	2.5-5.5   #f768a1  often felt, minor damage
//	5.5-6.1   #dd3497  slight damage to buildings
//	6.1-7.0   #ae017e  a lot of damage in populated areas
//	7.0-8.0   #7a0177  major earthquake
//	  >= 8.0  #49006a  great earthquake
//
// Lower bounds are inclusive. The legend is generated from the same table as
// [ColorFor], see [LegendBuckets].
//
// Marker radius is magnitude x 3 pixels. Readings that are absent or not
// finite are invalid: they land in the lowest bucket and are drawn at
// [MinVisibleRadius] rather than aborting the render.
package domain
