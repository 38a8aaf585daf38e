package shadow

// depthVertexShader projects caster vertices with the light MVP.
const depthVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;

uniform mat4 uLightMVP;

out float vDepth;

void main() {
    gl_Position = uLightMVP * vec4(aPosition, 1.0);
    vDepth = gl_Position.z / gl_Position.w;
}
`

// depthFragmentShader stores window-space depth in the red channel.
const depthFragmentShader = `
#version 410 core

in float vDepth;

out vec4 FragColor;

void main() {
    float depth = vDepth * 0.5 + 0.5;
    FragColor = vec4(depth, depth, depth, 1.0);
}
`
