// Package billboard binds libavformat, libavcodec and libswscale to
// decode the video track of a media file into planar YUV 4:2:0 pictures.
//
// Decoder implements player.Decoder; Open can be passed directly as
// player.Options.Open.
package billboard
