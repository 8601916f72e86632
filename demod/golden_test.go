package demod

// Captured output of the QSD chain for the ramp x[i] = i*129 over 512 samples.
var goldenInt16IQ = []int16{
	0, 0, -1, 0, 0, 0, -3, 0, 5, 0, -10, 0, 17, 0, -29, 0, 46, 0, -73, 0,
	112, 0, -177, 0, 319, -65, -376, 189, 403, -310, -416, 424, 417, -535, -414, 641, 404, -743, -393, 840,
	379, -935, -366, 1024, 351, -1111, -339, 1193, 323, -1273, -312, 1349, 298, -1423, -287, 1493, 274, -1561, -264, 1625,
	253, -1688, -243, 1747, 233, -1804, -224, 1859, 214, -1912, -207, 1962, 197, -2011, -190, 2057, 182, -2102, -175, 2144,
	167, -2186, -161, 2225, 154, -2263, -149, 2299, 142, -2335, -137, 2368, 131, -2400, -126, 2431, 120, -2461, -116, 2489,
	111, -2516, -107, 2542, 102, -2568, -99, 2591, 94, -2615, -91, 2636, 86, -2658, -84, 2678, 79, -2698, -77, 2717,
	73, -2735, -71, 2752, 67, -2769, -65, 2784, 62, -2800, -60, 2814, 57, -2829, -56, 2842, 52, -2856, -51, 2867,
	48, -2880, -47, 2891, 45, -2902, -44, 2913, 41, -2923, -40, 2932, 37, -2942, -37, 2951, 34, -2960, -34, 2968,
	32, -2976, -31, 2983, 29, -2991, -29, 2997, 27, -3005, -27, 3010, 25, -3017, -25, 3023, 23, -3029, -23, 3034,
	21, -3039, -21, 3044, 19, -3049, -19, 3053, 18, -3058, -18, 3062, 16, -3067, -17, 3070, 15, -3075, -15, 3078,
	14, -3082, -14, 3084, 13, -3088, -13, 3091, 12, -3094, -12, 3096, 11, -3100, -11, 3102, 9, -3105, -10, 3107,
	9, -3109, -9, 3111, 8, -3114, -9, 3115, 8, -3118, -8, 3119, 7, -3121, -8, 3123, 6, -3125, -7, 3126,
	6, -3128, -7, 3129, 5, -3131, -6, 3132, 5, -3133, -5, 3134, 5, -3136, -5, 3137, 4, -3138, -5, 3139,
	4, -3140, -4, 3141, 3, -3142, -4, 3142, 3, -3144, -4, 3144, 3, -3145, -4, 3146, 2, -3147, -3, 3147,
	2, -3148, -3, 3148, 2, -3150, -3, 3150, 2, -3151, -3, 3151, 2, -3152, -3, 3152, 1, -3153, -2, 3153,
	1, -3154, -2, 3154, 1, -3155, -2, 3154, 1, -3155, -2, 3155, 1, -3156, -2, 3156, 1, -3157, -2, 3156,
	1, -3157, -2, 3157, 0, -3158, -2, 3158, 0, -3158, -2, 3158, 0, -3159, -2, 3159, 0, -3159, -2, 3159,
	0, -3160, -1, 3159, 0, -3160, -1, 3160, 0, -3160, -1, 3160, 0, -3161, -1, 3160, 0, -3161, -1, 3161,
	0, -3161, -1, 3161, 0, -3161, -1, 3161, 0, -3162, -1, 3161, 0, -3162, -1, 3161, 0, -3162, -1, 3162,
	0, -3162, -1, 3162, 0, -3162, -1, 3162, 0, -3163, -1, 3162, 0, -3163, -1, 3162, 0, -3163, -1, 3162,
	0, -3163, -1, 3162, 0, -3163, -1, 3163, 0, -3163, -1, 3163, 0, -3163, -1, 3163, 0, -3163, -1, 3163,
	0, -3163, -1, 3163, 0, -3163, -1, 3163, 0, -3163, -1, 3163, 0, -3164, -1, 3163, 0, -3164, -1, 3163,
	0, -3164, -1, 3163, 0, -3164, -1, 3163, 0, -3164, -1, 3163, 0, -3164, 0, 3163, 0, -3164, -1, 3163,
	0, -3164, -1, 3163, 0, -3164, -1, 3163, 0, -3164, -1, 3163, 0, -3164, -1, 3163, 0, -3164, -1, 3163,
	0, -3164, -1, 3163, 0, -3164, -1, 3164, 0, -3164, -1, 3164, 0, -3164, 0, 3164, -1, -3164, 0, 3164,
	-1, -3164, 0, 3164, 0, -3164, -1, 3164, 0, -3164, -1, 3164,
}

var goldenFloatIQ = []float32{
	0.000000, 0.000000, -0.256352, 0.000000, 0.942890, 0.000000, -2.399868, 0.000000,
	5.125652, 0.000000, -9.825539, 0.000000, 17.479908, 0.000000, -29.451576, 0.000000,
	47.681004, 0.000000, -75.103752, 0.000000, 116.750160, 0.000000, -183.836288, 0.000000,
	330.973328, -64.500000, -393.796448, 191.571457, 429.100830, -316.114166, -448.933289, 438.178497,
	458.815063, -557.813782, -462.004150, 675.068237, 460.660156, -789.989380, -456.294922, 902.623596,
	449.988220, -1013.016418, -442.509216, 1121.212402, 434.394867, -1227.255249, -426.006775, 1331.187866,
	417.529236, -1433.052246, -409.220398, 1532.889526, 401.076965, -1630.739990, -393.095520, 1726.643311,
	385.272888, -1820.638062, -377.606018, 1912.762451, 370.091583, -2003.053467, -362.726807, 2091.547607,
	355.508636, -2178.280762, -348.434021, 2263.288086, 341.500061, -2346.603516, -334.704071, 2428.261230,
	328.043640, -2508.293945, -321.515503, 2586.733887, 315.117310, -2663.612793, -308.846558, 2738.961914,
	302.700439, -2812.811523, -296.676758, 2885.191650, 290.772919, -2956.131348, -284.986755, 3025.659180,
	279.315338, -3093.803711, -273.756897, 3160.592041, 268.309174, -3226.051270, -262.969727, 3290.208008,
	257.736755, -3353.087891, -252.607697, 3414.716309, 247.580780, -3475.118408, -242.653946, 3534.318359,
	237.825043, -3592.340576, -233.092529, 3649.208008, 228.454132, -3704.943848, -223.907578, 3759.570312,
	219.452057, -3813.109863, -215.084732, 3865.583984, 210.804596, -3917.013916, -206.609650, 3967.420410,
	202.498230, -4016.823730, -198.468506, 4065.243896, 194.518997, -4112.700684, -190.648071, 4159.212891,
	186.853775, -4204.799805, -183.135712, 4249.479004, 179.491196, -4293.269531, -175.918991, 4336.188477,
	172.418671, -4378.252930, -168.987381, 4419.480957, 165.624420, -4459.888184, -162.328964, 4499.491211,
	159.098618, -4538.306641, -155.932266, 4576.349609, 152.829346, -4613.634766, -149.787567, 4650.178711,
	146.807144, -4685.995117, -143.885498, 4721.098633, 141.022476, -4755.503906, -138.215591, 4789.224609,
	135.465393, -4822.273926, -132.769165, 4854.665527, 130.127243, -4886.412598, -127.537674, 4917.527832,
	124.999489, -4948.023926, -122.512115, 4977.913086, 120.074181, -5007.207520, -117.684761, 5035.918945,
	115.343002, -5064.059082, -113.047585, 5091.639160, 110.798203, -5118.670410, -108.593262, 5145.164062,
	106.432220, -5171.130371, -104.314133, 5196.579590, 102.238350, -5221.522461, -100.204315, 5245.969238,
	98.210175, -5269.929688, -96.255745, 5293.413086, 94.340416, -5316.429199, -92.462967, 5338.987305,
	90.622978, -5361.096680, -88.819550, 5382.766113, 87.051834, -5404.003906, -85.319733, 5424.819336,
	83.621780, -5445.220703, -81.957405, 5465.215820, 80.326591, -5484.812988, -78.727982, 5504.020020,
	77.161224, -5522.845215, -75.625595, 5541.295410, 74.120834, -5559.378418, -72.646072, 5577.102051,
	71.200264, -5594.472656, -69.783676, 5611.497559, 68.395020, -5628.184082, -67.033783, 5644.538086,
	65.700096, -5660.566895, -64.392654, 5676.276855, 63.111252, -5691.673828, -61.855480, 5706.764648,
	60.624638, -5721.555664, -59.418480, 5736.051758, 58.235847, -5750.259766, -57.077347, 5764.184570,
	55.941452, -5777.833008, -54.827812, 5791.208984, 53.737114, -5804.319336, -52.667355, 5817.168945,
	51.618801, -5829.761719, -50.592278, 5842.104492, 49.585705, -5854.202148, -48.599045, 5866.058594,
	47.631924, -5877.679688, -46.683502, 5889.069336, 45.754108, -5900.231445, -44.843506, 5911.171875,
	43.950859, -5921.894531, -43.076332, 5932.404297, 42.219044, -5942.704102, -41.378632, 5952.799805,
	40.554943, -5962.693359, -39.748199, 5972.390625, 38.957016, -5981.895508, -38.181702, 5991.209961,
	37.422474, -6000.339844, -36.677456, 6009.288086, 35.947926, -6018.058594, -35.232651, 6026.654297,
	34.531704, -6035.079102, -33.843918, 6043.335938, 33.170742, -6051.428711, -32.510883, 6059.360352,
	31.863907, -6067.133789, -31.229561, 6074.752930, 30.607700, -6082.220703, -29.998287, 6089.539062,
	29.401619, -6096.711914, -28.816357, 6103.742188, 28.242790, -6110.632812, -27.680855, 6117.385742,
	27.130360, -6124.004883, -26.590969, 6130.492188, 26.061836, -6136.850586, -25.543154, 6143.083008,
	25.033890, -6149.190430, -24.535683, 6155.175781, 24.047842, -6161.042969, -23.568972, 6166.792969,
	23.100014, -6172.428711, -22.640816, 6177.952148, 22.190084, -6183.366211, -21.748726, 6188.671875,
	21.316162, -6193.872070, -20.892513, 6198.969727, 20.476025, -6203.965820, -20.068333, 6208.861328,
	19.669445, -6213.660156, -19.277992, 6218.363281, 18.894295, -6222.972656, -18.518318, 6227.491211,
	18.149939, -6231.918945, -17.788908, 6236.258789, 17.434536, -6240.512695, -17.087305, 6244.681641,
	16.747210, -6248.766602, -16.413992, 6252.771484, 16.086576, -6256.696289, -15.766959, 6260.542969,
	15.452888, -6264.312500, -15.145083, 6268.007812, 14.842741, -6271.628906, -14.548022, 6275.177734,
	14.258858, -6278.656250, -13.976735, 6282.066406, 13.698181, -6285.408203, -13.425323, 6288.683594,
	13.159090, -6291.894531, -12.895308, 6295.041016, 12.639343, -6298.123047, -12.388180, 6301.146484,
	12.142130, -6304.109375, -11.899221, 6307.011719, 11.663452, -6309.857422, -11.429669, 6312.646484,
	11.202121, -6315.378906, -10.979919, 6318.056641, 10.761461, -6320.683594, -10.546636, 6323.255859,
	10.336773, -6325.777344, -10.131880, 6328.250000, 9.930668, -6330.671875, -9.733883, 6333.046875,
	9.540248, -6335.375000, -9.349779, 6337.656250, 9.163829, -6339.890625, -8.982336, 6342.082031,
	8.803799, -6344.230469, -8.627977, 6346.335938, 8.455311, -6348.398438, -8.288118, 6350.419922,
	8.123929, -6352.402344, -7.962116, 6354.345703, 7.802615, -6356.250000, -7.645899, 6358.115234,
	7.494190, -6359.943359, -7.344238, 6361.734375, 7.197956, -6363.490234, -7.054563, 6365.210938,
	6.915055, -6366.898438, -6.778359, 6368.550781, 6.645219, -6370.171875, -6.514186, 6371.761719,
	6.384854, -6373.320312, -6.257181, 6374.847656, 6.131486, -6376.343750, -6.009104, 6377.808594,
	5.889138, -6379.246094, -5.772439, 6380.654297, 5.657561, -6382.035156, -5.543521, 6383.386719,
	5.433731, -6384.712891, -5.325897, 6386.011719, 5.218781, -6387.285156, -5.115513, 6388.533203,
	5.012856, -6389.757812, -4.911867, 6390.955078, 4.814037, -6392.128906, -4.718596, 6393.279297,
	4.627031, -6394.408203, -4.534530, 6395.515625, 4.443304, -6396.599609, -4.355855, 6397.662109,
	4.268830, -6398.703125, -4.183186, 6399.724609, 4.100256, -6400.724609, -4.018931, 6401.705078,
}

// ConvertInt16 output for the byte ramp b[i] = i*4.
var rampInt16 = []int16{
	-16384, 16512, -16128, 16768, -15872, 17024, -15616, 17280, -15360, 17536, -15104, 17792, -14848, 18048, -14592, 18304,
	-14336, 18560, -14080, 18816, -13824, 19072, -13568, 19328, -13312, 19584, -13056, 19840, -12800, 20096, -12544, 20352,
	-16384, 16512, -16128, 16768, -15872, 17024, -15616, 17280, -15360, 17536, -15104, 17792, -14848, 18048, -14592, 18304,
	-14336, 18560, -14080, 18816, -13824, 19072, -13568, 19328, -13312, 19584, -13056, 19840, -12800, 20096, -12544, 20352,
	-16384, 16512, -16128, 16768, -15872, 17024, -15616, 17280, -15360, 17536, -15104, 17792, -14848, 18048, -14592, 18304,
	-14336, 18560, -14080, 18816, -13824, 19072, -13568, 19328, -13312, 19584, -13056, 19840, -12800, 20096, -12544, 20352,
	-16384, 16512, -16128, 16768, -15872, 17024, -15616, 17280, -15360, 17536, -15104, 17792, -14848, 18048, -14592, 18304,
	-14336, 18560, -14080, 18816, -13824, 19072, -13568, 19328, -13312, 19584, -13056, 19840, -12800, 20096, -12544, 20352,
	-16384, 16512, -16128, 16768, -15872, 17024, -15616, 17280, -15360, 17536, -15104, 17792, -14848, 18048, -14592, 18304,
	-14336, 18560, -14080, 18816, -13824, 19072, -13568, 19328, -13312, 19584, -13056, 19840, -12800, 20096, -12544, 20352,
	-16384, 16512, -16128, 16768, -15872, 17024, -15616, 17280, -15360, 17536, -15104, 17792, -14848, 18048, -14592, 18304,
	-14336, 18560, -14080, 18816, -13824, 19072, -13568, 19328, -13312, 19584, -13056, 19840, -12800, 20096, -12544, 20352,
	-16384, 16512, -16128, 16768, -15872, 17024, -15616, 17280, -15360, 17536, -15104, 17792, -14848, 18048, -14592, 18304,
	-14336, 18560, -14080, 18816, -13824, 19072, -13568, 19328, -13312, 19584, -13056, 19840, -12800, 20096, -12544, 20352,
	-16384, 16512, -16128, 16768, -15872, 17024, -15616, 17280, -15360, 17536, -15104, 17792, -14848, 18048, -14592, 18304,
	-14336, 18560, -14080, 18816, -13824, 19072, -13568, 19328, -13312, 19584, -13056, 19840, -12800, 20096, -12544, 20352,
}
